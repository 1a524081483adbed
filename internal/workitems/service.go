package workitems

import (
	"context"
	"strings"

	"github.com/NancyCima/Azure-Dashboard/internal/content"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/apperr"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/telemetry"
)

// DefaultCheckedTag marks a User Story as reviewed.
const DefaultCheckedTag = "US Checked"

// Service exposes filtered views over the tracker.
type Service struct {
	Source     Source
	CheckedTag string
	Logger     telemetry.Logger
}

// NewService constructs a Service.
func NewService(src Source, checkedTag string, logger telemetry.Logger) *Service {
	if checkedTag == "" {
		checkedTag = DefaultCheckedTag
	}
	if logger == nil {
		logger = telemetry.Default()
	}
	return &Service{Source: src, CheckedTag: checkedTag, Logger: logger}
}

func (s *Service) visible(ctx context.Context) ([]WorkItem, error) {
	items, err := s.Source.List(ctx)
	if err != nil {
		return nil, err
	}
	kept := Filter(items)
	s.Logger.Debug("workitems.filtered", map[string]any{"fetched": len(items), "kept": len(kept)})
	return kept, nil
}

// List returns visible work items, optionally restricted to one state.
func (s *Service) List(ctx context.Context, state string) ([]WorkItem, error) {
	items, err := s.visible(ctx)
	if err != nil {
		return nil, err
	}
	items = ByState(items, strings.TrimSpace(state))
	for i := range items {
		p := ItemProgress(items[i])
		items[i].Progress = &p
	}
	return items, nil
}

// UserStories returns visible User Stories with cleaned text, their child
// work items and weighted progress.
func (s *Service) UserStories(ctx context.Context) ([]WorkItem, error) {
	items, err := s.visible(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]WorkItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	stories := make([]WorkItem, 0)
	for _, item := range items {
		if !item.IsUserStory() {
			continue
		}
		story := item
		story.Description = content.Normalize(story.Description)
		story.AcceptanceCriteria = content.Normalize(story.AcceptanceCriteria)
		story.ChildWorkItems = childrenOf(story, items, byID)
		p := StoryProgress(story.ChildWorkItems)
		story.Progress = &p
		stories = append(stories, story)
	}
	return stories, nil
}

func childrenOf(story WorkItem, items []WorkItem, byID map[int]WorkItem) []WorkItem {
	seen := make(map[int]struct{})
	var children []WorkItem
	add := func(child WorkItem) {
		if child.IsUserStory() || child.ID == story.ID {
			return
		}
		if _, dup := seen[child.ID]; dup {
			return
		}
		seen[child.ID] = struct{}{}
		p := ItemProgress(child)
		child.Progress = &p
		children = append(children, child)
	}
	for _, id := range story.ChildIDs {
		if child, ok := byID[id]; ok {
			add(child)
		}
	}
	for _, item := range items {
		for _, dep := range item.Dependencies {
			if dep == story.ID {
				add(item)
				break
			}
		}
	}
	return children
}

// IncompleteTickets returns User Stories missing description or acceptance criteria.
func (s *Service) IncompleteTickets(ctx context.Context) ([]IncompleteTicket, error) {
	items, err := s.visible(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]IncompleteTicket, 0)
	for _, item := range items {
		if !item.IsUserStory() {
			continue
		}
		item.Description = content.Normalize(item.Description)
		item.AcceptanceCriteria = content.Normalize(item.AcceptanceCriteria)
		t := IncompleteTicket{
			WorkItem:                  item,
			MissingDescription:        content.IsEmpty(item.Description),
			MissingAcceptanceCriteria: content.IsEmpty(item.AcceptanceCriteria),
		}
		if t.MissingDescription || t.MissingAcceptanceCriteria {
			out = append(out, t)
		}
	}
	return out, nil
}

// MarkChecked tags a User Story as reviewed.
func (s *Service) MarkChecked(ctx context.Context, id int) error {
	if id <= 0 {
		return apperr.Input("invalid work item id", "")
	}
	if err := s.Source.AddTag(ctx, id, s.CheckedTag); err != nil {
		return err
	}
	s.Logger.Info("workitems.marked_checked", map[string]any{"work_item_id": id, "tag": s.CheckedTag})
	return nil
}

// UpdateAcceptanceCriteria writes criteria back as a bulleted list.
func (s *Service) UpdateAcceptanceCriteria(ctx context.Context, id int, criteria []string) error {
	if id <= 0 {
		return apperr.Input("invalid work item id", "")
	}
	text := FormatCriteriaList(criteria)
	if text == "" {
		return apperr.Input("criteria is required", "at least one non-blank criterion")
	}
	if err := s.Source.UpdateAcceptanceCriteria(ctx, id, text); err != nil {
		return err
	}
	s.Logger.Info("workitems.criteria_updated", map[string]any{"work_item_id": id, "count": len(ParseCriteriaList(text))})
	return nil
}
