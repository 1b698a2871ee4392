package service

import (
	"context"
	"fmt"
	"time"

	"pauller/internal/auth"
	"pauller/internal/models"
	"pauller/internal/repository"
)

// PollService applies the request's capability set to poll reads and writes.
type PollService struct {
	pollRepo repository.PollRepository
	now      func() time.Time
}

// NewPollService returns a new PollService.
func NewPollService(pollRepo repository.PollRepository) *PollService {
	return &PollService{pollRepo: pollRepo, now: time.Now}
}

// CreatePollInput carries the client-supplied poll fields. The author is
// always stamped from the resolved account, never from input.
type CreatePollInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartAt     time.Time `json:"start_at"`
	FinishAt    time.Time `json:"finish_at"`
	PollType    string    `json:"poll_type"`
	Anonymously bool      `json:"anonymously"`
}

// ListPolls returns a page of polls. Callers without the admin capability
// only see polls whose voting window contains the current instant; the
// filter is applied before paging so pages are never under-filled.
func (s *PollService) ListPolls(ctx context.Context, caps auth.Capabilities, limit, offset int) (*models.PollPage, error) {
	polls, total, err := s.pollRepo.List(ctx, limit, offset, !caps.IsAdmin, s.now())
	if err != nil {
		return nil, err
	}

	page := &models.PollPage{
		Count:   total,
		Results: polls,
	}
	if int64(offset+len(polls)) < total {
		page.Next = pageLink(limit, offset+limit)
	}
	if offset > 0 {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		page.Prev = pageLink(limit, prev)
	}
	return page, nil
}

// ListAllPolls returns every poll regardless of activity window. It demands
// the admin capability even though routes guard it too, so a miswired route
// cannot leak inactive polls.
func (s *PollService) ListAllPolls(ctx context.Context, caps auth.Capabilities) (*models.PollPage, error) {
	if !caps.IsAdmin {
		return nil, models.NewPermissionDeniedError(auth.DeniedNotAdmin)
	}

	polls, err := s.pollRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &models.PollPage{
		Count:   int64(len(polls)),
		Results: polls,
	}, nil
}

// CreatePoll validates and persists a poll authored by the given account.
func (s *PollService) CreatePoll(ctx context.Context, author *models.User, in CreatePollInput) (*models.Poll, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("title is required")
	}
	if in.StartAt.IsZero() || in.FinishAt.IsZero() {
		return nil, models.NewValidationError("start_at and finish_at are required")
	}
	if !in.FinishAt.After(in.StartAt) {
		return nil, models.NewValidationError("finish_at must be after start_at")
	}

	pollType := in.PollType
	if pollType == "" {
		pollType = models.PollTypeSingle
	}
	normalized, ok := models.NormalizePollType(pollType)
	if !ok {
		return nil, models.NewValidationError("poll_type must be equal one of: single, multiple or text")
	}

	poll := &models.Poll{
		Title:       in.Title,
		Description: in.Description,
		AuthorID:    author.ID,
		CreatedAt:   s.now(),
		StartAt:     in.StartAt,
		FinishAt:    in.FinishAt,
		PollType:    normalized,
		Anonymously: in.Anonymously,
	}
	if err := s.pollRepo.Create(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

// DeletePoll removes the poll with the given id. Deleting an absent id is
// reported as not-found, not treated as a failure of the store.
func (s *PollService) DeletePoll(ctx context.Context, caps auth.Capabilities, id uint) error {
	if !caps.IsAdmin {
		return models.NewPermissionDeniedError(auth.DeniedNotAdmin)
	}

	deleted, err := s.pollRepo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFoundError("Poll", id)
	}
	return nil
}

func pageLink(limit, offset int) string {
	return fmt.Sprintf("/api/polls?limit=%d&offset=%d", limit, offset)
}
