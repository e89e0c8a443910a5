package classify

import (
	"context"
	"fmt"

	"github.com/econograph/backend/pkg/common"
	"github.com/econograph/backend/pkg/graph"
	"github.com/econograph/backend/pkg/logger"
)

// Stage identifies which strategy produced a label.
type Stage string

const (
	StageResumed   Stage = "resumed"
	StageSeed      Stage = "seed"
	StageText      Stage = "text"
	StageCommunity Stage = "community"
	StageInherited Stage = "inherited"
	StageFallback  Stage = "fallback"
)

// defaultBatchSize bounds how many text keys are fetched per request.
const defaultBatchSize = 20

// TextFetcher retrieves descriptive text for a batch of keys. Missing
// entries are simply absent from the result map; only transport-level
// failures return an error.
type TextFetcher interface {
	FetchTexts(ctx context.Context, keys []string) (map[string]string, error)
}

// TextClassifier maps a person and their descriptive text to a school.
// ok is false when the text carries no usable signal.
type TextClassifier interface {
	Classify(ctx context.Context, name, text string) (school string, ok bool, err error)
}

// Cascade assigns exactly one school label to every record by running a
// fixed sequence of strategies, each only touching records the previous
// ones left unassigned. A label, once set, is never changed.
type Cascade struct {
	Taxonomy   Taxonomy
	Fetcher    TextFetcher
	Classifier TextClassifier

	// BatchSize bounds text fetches; zero means defaultBatchSize.
	BatchSize int

	// Preassigned restores labels from an earlier interrupted run. They
	// are applied before any stage and treated as final.
	Preassigned map[string]string

	// Checkpoint, when set, receives the full label map after each
	// classified batch. Failures are logged and do not stop the run.
	Checkpoint func(ctx context.Context, labels map[string]string) error
}

// Result carries the final assignment plus per-stage diagnostics.
type Result struct {
	// Labels maps every record identifier to a school or Unclassified.
	Labels map[string]string

	// AssignedBy records which stage labeled each identifier.
	AssignedBy map[string]Stage

	// Counts tallies assignments per stage.
	Counts map[Stage]int
}

type runState struct {
	records []common.Person
	g       *graph.Graph
	ix      *graph.NameIndex

	labels     map[string]string
	assignedBy map[string]Stage
	counts     map[Stage]int
}

func (s *runState) assign(id, label string, stage Stage) {
	if _, ok := s.labels[id]; ok {
		return
	}
	s.labels[id] = label
	s.assignedBy[id] = stage
	s.counts[stage]++
}

// Run executes the cascade over sanitized records and their relationship
// graph. Every record receives a label; the graph and name index come
// from graph.Build on the same record slice.
func (c *Cascade) Run(
	ctx context.Context,
	records []common.Person,
	g *graph.Graph,
	ix *graph.NameIndex,
) (*Result, error) {
	if err := c.Taxonomy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid taxonomy: %w", err)
	}

	s := &runState{
		records:    records,
		g:          g,
		ix:         ix,
		labels:     make(map[string]string, len(records)),
		assignedBy: make(map[string]Stage, len(records)),
		counts:     make(map[Stage]int),
	}

	c.applyPreassigned(s)
	c.runSeeds(s)
	if err := c.runTextClassification(ctx, s); err != nil {
		return nil, err
	}
	c.runCommunities(s)
	c.runInheritance(s)
	c.runFallback(s)

	if err := c.verify(s); err != nil {
		return nil, err
	}

	logger.Info(
		"[Classify] Label cascade complete",
		"records", len(records),
		"resumed", s.counts[StageResumed],
		"seeded", s.counts[StageSeed],
		"classified", s.counts[StageText],
		"community", s.counts[StageCommunity],
		"inherited", s.counts[StageInherited],
		"unclassified", s.counts[StageFallback],
	)

	return &Result{
		Labels:     s.labels,
		AssignedBy: s.assignedBy,
		Counts:     s.counts,
	}, nil
}

func (c *Cascade) applyPreassigned(s *runState) {
	if len(c.Preassigned) == 0 {
		return
	}
	for _, r := range s.records {
		id := r.ID.String()
		label, ok := c.Preassigned[id]
		if !ok {
			continue
		}
		if label != Unclassified && !c.Taxonomy.Contains(label) {
			logger.Warn("[Classify] Dropping restored label outside the school list", "id", id, "label", label)
			continue
		}
		s.assign(id, label, StageResumed)
	}
}

// runSeeds applies the curated seed table. Within the table the last
// entry for a name wins; a seed whose name resolves to no record is
// logged and skipped.
func (c *Cascade) runSeeds(s *runState) {
	resolved := make(map[string]string)
	unmatched := 0
	for _, seed := range c.Taxonomy.Seeds {
		id, ok := s.ix.Resolve(seed.Name)
		if !ok {
			logger.Debug("[Classify] Seed name not found in dataset", "name", seed.Name)
			unmatched++
			continue
		}
		resolved[id] = seed.School
	}
	for _, r := range s.records {
		id := r.ID.String()
		if school, ok := resolved[id]; ok {
			s.assign(id, school, StageSeed)
		}
	}
	if unmatched > 0 {
		logger.Info("[Classify] Seed names without a matching record", "count", unmatched)
	}
}

// runTextClassification labels remaining records with a text source by
// fetching descriptive text in batches and running the classifier over
// each hit. Fetch and classification failures degrade to "no signal" for
// the affected records instead of failing the run.
func (c *Cascade) runTextClassification(ctx context.Context, s *runState) error {
	if c.Fetcher == nil || c.Classifier == nil {
		logger.Debug("[Classify] Text classification disabled, no fetcher or classifier configured")
		return nil
	}

	var candidates []common.Person
	for _, r := range s.records {
		if _, ok := s.labels[r.ID.String()]; ok {
			continue
		}
		if r.URL == "" {
			continue
		}
		candidates = append(candidates, r)
	}

	batchSize := c.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	for start := 0; start < len(candidates); start += batchSize {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("text classification interrupted: %w", err)
		}

		end := min(start+batchSize, len(candidates))
		batch := candidates[start:end]

		keys := make([]string, len(batch))
		for i, r := range batch {
			keys[i] = r.URL
		}

		texts, err := c.Fetcher.FetchTexts(ctx, keys)
		if err != nil {
			logger.Warn("[Classify] Text fetch failed, skipping batch", "size", len(batch), "error", err)
			continue
		}

		for _, r := range batch {
			text := texts[r.URL]
			if text == "" {
				continue
			}
			school, ok, err := c.Classifier.Classify(ctx, r.Name, text)
			if err != nil {
				logger.Warn("[Classify] Classifier error", "name", r.Name, "error", err)
				continue
			}
			if !ok {
				continue
			}
			if !c.Taxonomy.Contains(school) {
				logger.Warn("[Classify] Classifier returned a label outside the school list", "name", r.Name, "label", school)
				continue
			}
			s.assign(r.ID.String(), school, StageText)
		}

		if c.Checkpoint != nil {
			if err := c.Checkpoint(ctx, s.labels); err != nil {
				logger.Warn("[Classify] Checkpoint failed", "error", err)
			}
		}
	}
	return nil
}

// runCommunities labels members of each detected community with the
// plurality label of the members labeled so far. Votes are taken from a
// snapshot so one community's new labels cannot vote in another.
func (c *Cascade) runCommunities(s *runState) {
	snapshot := make(map[string]string, len(s.labels))
	for id, label := range s.labels {
		snapshot[id] = label
	}

	for _, members := range graph.Communities(s.g) {
		winner, ok := pluralityLabel(members, func(id string) (string, int, bool) {
			label, labeled := snapshot[id]
			return label, 1, labeled
		})
		if !ok {
			continue
		}
		for _, id := range members {
			s.assign(id, winner, StageCommunity)
		}
	}
}

// runInheritance labels remaining records from their direct relations.
// The forward pass weighs doctoral advisors double relative to
// influences; a reverse pass then covers records whose only labeled
// relations are their own doctoral students. Both passes read live
// labels in record order, so earlier inherited labels can propagate.
func (c *Cascade) runInheritance(s *runState) {
	for _, r := range s.records {
		id := r.ID.String()
		if _, ok := s.labels[id]; ok {
			continue
		}
		relations := append(
			relationVotes(s, id, r.Influences, 1),
			relationVotes(s, id, r.DoctoralAdvisors, 2)...,
		)
		if winner, ok := weightedPlurality(relations); ok {
			s.assign(id, winner, StageInherited)
		}
	}

	for _, r := range s.records {
		id := r.ID.String()
		if _, ok := s.labels[id]; ok {
			continue
		}
		if winner, ok := weightedPlurality(relationVotes(s, id, r.DoctoralStudents, 1)); ok {
			s.assign(id, winner, StageInherited)
		}
	}
}

func (c *Cascade) runFallback(s *runState) {
	for _, r := range s.records {
		s.assign(r.ID.String(), Unclassified, StageFallback)
	}
}

func (c *Cascade) verify(s *runState) error {
	for _, r := range s.records {
		id := r.ID.String()
		label, ok := s.labels[id]
		if !ok {
			return fmt.Errorf("record %s left without a label", id)
		}
		if label != Unclassified && !c.Taxonomy.Contains(label) {
			return fmt.Errorf("record %s carries label %q outside the school list", id, label)
		}
	}
	return nil
}

type vote struct {
	label  string
	weight int
}

// relationVotes resolves related names to current labels, one weighted
// vote per labeled relation. Self references and unresolved names carry
// no vote.
func relationVotes(s *runState, selfID string, names []string, weight int) []vote {
	var votes []vote
	for _, name := range names {
		target, ok := s.ix.Resolve(name)
		if !ok || target == selfID {
			continue
		}
		if label, labeled := s.labels[target]; labeled && label != Unclassified {
			votes = append(votes, vote{label: label, weight: weight})
		}
	}
	return votes
}

// weightedPlurality picks the label with the highest total weight. Ties
// break toward the label encountered first, which keeps the outcome
// stable for identical input.
func weightedPlurality(votes []vote) (string, bool) {
	totals := make(map[string]int)
	var order []string
	for _, v := range votes {
		if _, seen := totals[v.label]; !seen {
			order = append(order, v.label)
		}
		totals[v.label] += v.weight
	}

	best, bestWeight := "", 0
	for _, label := range order {
		if totals[label] > bestWeight {
			best, bestWeight = label, totals[label]
		}
	}
	return best, best != ""
}

// pluralityLabel runs weightedPlurality over a member list through a
// lookup callback.
func pluralityLabel(members []string, lookup func(id string) (string, int, bool)) (string, bool) {
	var votes []vote
	for _, id := range members {
		if label, weight, ok := lookup(id); ok && label != Unclassified {
			votes = append(votes, vote{label: label, weight: weight})
		}
	}
	return weightedPlurality(votes)
}
