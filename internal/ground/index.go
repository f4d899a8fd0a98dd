package ground

import (
	"context"
)

// ViewIndex lists the grounds a user can see: owned ones first, then the
// ones joined through an active membership.
type ViewIndex struct {
	repo    Repository
	members MembershipIndex
}

func NewViewIndex(repo Repository, members MembershipIndex) *ViewIndex {
	return &ViewIndex{repo: repo, members: members}
}

// VisibleGroundIDs returns each id once.
func (v *ViewIndex) VisibleGroundIDs(ctx context.Context, userID string) ([]string, error) {
	owned, err := v.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	joined, err := v.members.GroundIDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(owned)+len(joined))
	ids := make([]string, 0, len(owned)+len(joined))
	for _, g := range owned {
		seen[g.ID] = true
		ids = append(ids, g.ID)
	}
	for _, id := range joined {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
