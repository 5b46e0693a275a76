// Package maintenance runs periodic cleanup jobs: sqlite will not
// expire cache rows or dead blacklist rows on its own.
package maintenance

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/librarian/internal/auth"
	"github.com/mrlokans/librarian/internal/cache"
)

// Purger periodically deletes expired cache entries and expired
// blacklist rows.
type Purger struct {
	cron      *cron.Cron
	store     *cache.Store
	blacklist *auth.Blacklist
}

// NewPurger schedules the purge on the given cron expression.
func NewPurger(store *cache.Store, blacklist *auth.Blacklist, schedule string) (*Purger, error) {
	p := &Purger{
		cron:      cron.New(),
		store:     store,
		blacklist: blacklist,
	}
	if _, err := p.cron.AddFunc(schedule, p.run); err != nil {
		return nil, err
	}
	return p, nil
}

// Start begins running the purge on schedule.
func (p *Purger) Start() {
	p.cron.Start()
}

// Stop halts the schedule; a purge already in flight finishes.
func (p *Purger) Stop() {
	p.cron.Stop()
}

func (p *Purger) run() {
	if removed, err := p.store.PurgeExpired(); err != nil {
		log.Printf("cache purge failed: %v", err)
	} else if removed > 0 {
		log.Printf("purged %d expired cache entries", removed)
	}

	if removed, err := p.blacklist.PurgeExpired(); err != nil {
		log.Printf("blacklist purge failed: %v", err)
	} else if removed > 0 {
		log.Printf("purged %d expired blacklist entries", removed)
	}
}
