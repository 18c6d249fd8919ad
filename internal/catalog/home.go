package catalog

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	trendingLimit = 8
	newDropsLimit = 3
)

// HomeFeed is the landing page selection.
type HomeFeed struct {
	// TrendingCollection is the most recently launched collection, nil when there is none.
	TrendingCollection *Collection `json:"trendingCollection"`
	Trending           []Design    `json:"trending"`
	NewDrops           []Design    `json:"newDrops"`
}

// Home fetches the trending collection and the newest designs concurrently. Each half degrades
// to empty on its own.
func (g *Gateway) Home(ctx context.Context) HomeFeed {
	var (
		collections []CollectionWithDesigns
		designs     []Design
	)
	// Both halves degrade to empty results instead of failing, so the group only joins them.
	var group errgroup.Group
	group.Go(func() error {
		collections = g.CollectionsWithDesigns(ctx)
		return nil
	})
	group.Go(func() error {
		designs = g.Designs(ctx)
		return nil
	})
	_ = group.Wait()

	feed := HomeFeed{Trending: []Design{}, NewDrops: newestDesigns(designs, newDropsLimit)}
	if len(collections) > 0 {
		latest := collections[0]
		feed.TrendingCollection = &latest.Collection
		feed.Trending = firstDesigns(latest.Designs, trendingLimit)
	}
	return feed
}

func firstDesigns(designs []Design, limit int) []Design {
	if len(designs) > limit {
		designs = designs[:limit]
	}
	return append([]Design{}, designs...)
}

// newestDesigns orders by creation time, newest first; designs without a parsable timestamp sort
// last.
func newestDesigns(designs []Design, limit int) []Design {
	sorted := append([]Design{}, designs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return createdAt(sorted[i]).After(createdAt(sorted[j]))
	})
	return firstDesigns(sorted, limit)
}

func createdAt(d Design) time.Time {
	if d.CreatedAt == nil {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, *d.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return ts
}
