package match

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Ranked is one entry of a batch result. Index is the position in the input
// slice; Err is set when that pair could not be scored.
type Ranked struct {
	Index  int
	ID     string
	Result Result
	Err    error
}

// RankProjects scores pro against every project. Scored entries come first,
// ordered by descending score with ties kept in input order; failed entries
// follow in input order.
func RankProjects(pro Professional, projects []Project) []Ranked {
	out := make([]Ranked, len(projects))
	for i, p := range projects {
		res, err := Calculate(pro, p)
		out[i] = Ranked{Index: i, ID: p.ID, Result: res, Err: err}
	}
	return order(out)
}

// RankProfessionals scores every professional against project, ordered the
// same way as RankProjects.
func RankProfessionals(project Project, pros []Professional) []Ranked {
	out := make([]Ranked, len(pros))
	for i, pro := range pros {
		res, err := Calculate(pro, project)
		out[i] = Ranked{Index: i, ID: pro.ID, Result: res, Err: err}
	}
	return order(out)
}

// RankProfessionalsConcurrently is RankProfessionals spread over at most limit
// goroutines. Results are assembled by input index before ordering, so the
// output matches the sequential version. A cancelled ctx stops scheduling
// and is returned.
func RankProfessionalsConcurrently(ctx context.Context, project Project, pros []Professional, limit int) ([]Ranked, error) {
	out := make([]Ranked, len(pros))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, pro := range pros {
		if gctx.Err() != nil {
			break
		}
		i, pro := i, pro
		g.Go(func() error {
			res, err := Calculate(pro, project)
			out[i] = Ranked{Index: i, ID: pro.ID, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return order(out), nil
}

func order(items []Ranked) []Ranked {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if (a.Err == nil) != (b.Err == nil) {
			return a.Err == nil
		}
		if a.Err != nil {
			return false
		}
		return a.Result.Score > b.Result.Score
	})
	return items
}
