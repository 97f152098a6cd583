package services

import (
	"strings"
	"time"

	"shelfwise/internal/core/domain"
)

// Roster owns the set of member records. Like the catalog it relies on the
// Library facade for serialization.
type Roster struct {
	members map[int64]domain.Member
	order   []int64
	nextID  int64
}

// NewRoster creates an empty roster
func NewRoster() *Roster {
	return &Roster{
		members: make(map[int64]domain.Member),
		nextID:  1,
	}
}

// Register creates a new member record with a fresh id
func (r *Roster) Register(name, contact string) (domain.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Member{}, domain.Validationf("member name is required")
	}

	member := domain.Member{
		ID:        r.nextID,
		Name:      name,
		Contact:   strings.TrimSpace(contact),
		CreatedAt: time.Now(),
	}
	r.nextID++
	r.members[member.ID] = member
	r.order = append(r.order, member.ID)
	return member, nil
}

// Lookup finds a member by id
func (r *Roster) Lookup(id int64) (domain.Member, error) {
	member, ok := r.members[id]
	if !ok {
		return domain.Member{}, domain.NotFoundf("member %d not found", id)
	}
	return member, nil
}

// Remove deletes a member record. The caller is responsible for checking
// the ledger for active loans first.
func (r *Roster) Remove(id int64) error {
	if _, ok := r.members[id]; !ok {
		return domain.NotFoundf("member %d not found", id)
	}
	delete(r.members, id)
	for i, mid := range r.order {
		if mid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns all members in registration order
func (r *Roster) List() []domain.Member {
	out := make([]domain.Member, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.members[id])
	}
	return out
}

// restore replaces roster state from a persisted snapshot
func (r *Roster) restore(members []domain.Member, nextID int64) {
	r.members = make(map[int64]domain.Member, len(members))
	r.order = make([]int64, 0, len(members))
	for _, m := range members {
		r.members[m.ID] = m
		r.order = append(r.order, m.ID)
	}
	r.nextID = nextID
	if r.nextID < 1 {
		r.nextID = 1
	}
}
