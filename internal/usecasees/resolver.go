package usecasees

import (
	"context"
	"fmt"

	"copytrading/internal/repository/postgres"
	"copytrading/models"

	"github.com/sirupsen/logrus"
)

type followerResolver struct {
	relationshipRepo postgres.RelationshipRepo

	logger *logrus.Logger
}

func NewFollowerResolver(relationshipRepo postgres.RelationshipRepo, logger *logrus.Logger) *followerResolver {
	return &followerResolver{
		relationshipRepo: relationshipRepo,
		logger:           logger,
	}
}

// ListActiveFollowers returns the replicable followers of masterID from a
// single read. Duplicate follower rows and the master itself are dropped.
func (r *followerResolver) ListActiveFollowers(ctx context.Context, masterID int64) ([]models.FollowerRelationship, error) {
	rels, err := r.relationshipRepo.ListActiveFollowers(ctx, masterID)
	if err != nil {
		return nil, fmt.Errorf("list followers of %d: %w", masterID, err)
	}

	seen := make(map[int64]struct{}, len(rels))
	out := make([]models.FollowerRelationship, 0, len(rels))

	for _, rel := range rels {
		if !rel.Replicable() || rel.FollowerID == masterID {
			continue
		}
		if _, ok := seen[rel.FollowerID]; ok {
			r.logger.
				WithField("masterID", masterID).
				WithField("followerID", rel.FollowerID).
				Warn("duplicate active relationship")
			continue
		}
		seen[rel.FollowerID] = struct{}{}
		out = append(out, rel)
	}

	return out, nil
}
