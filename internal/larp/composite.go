package larp

import (
	"context"
	"errors"

	"larplaner/internal/domain"
)

// ErrNoScenario reports an event that loaded fine but references no scenario.
// Callers surface it to the user; no scenario fetch is attempted.
var ErrNoScenario = errors.New("event has no scenario assigned")

// EventWithScenario loads an event and then the scenario it references. The
// scenario fetch only starts once the event is loaded.
func (c *Client) EventWithScenario(ctx context.Context, eventID string) (domain.Event, domain.Scenario, error) {
	event, err := c.Events.GetByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, domain.Scenario{}, err
	}
	if event.ScenarioID == "" {
		return event, domain.Scenario{}, ErrNoScenario
	}
	scenario, err := c.Scenarios.GetByID(ctx, event.ScenarioID)
	if err != nil {
		return event, domain.Scenario{}, err
	}
	return event, scenario, nil
}

// EventForGame resolves the event owning a game session together with its
// scenario. Same no-scenario policy as EventWithScenario.
func (c *Client) EventForGame(ctx context.Context, gameID string) (domain.Event, domain.Scenario, error) {
	event, err := c.EventByGameID(ctx, gameID)
	if err != nil {
		return domain.Event{}, domain.Scenario{}, err
	}
	if event.ScenarioID == "" {
		return event, domain.Scenario{}, ErrNoScenario
	}
	scenario, err := c.Scenarios.GetByID(ctx, event.ScenarioID)
	if err != nil {
		return event, domain.Scenario{}, err
	}
	return event, scenario, nil
}

// EventsForUser lists all events and filters client-side to those with a role
// assigned to email, optionally narrowed to one status. The cached collection
// is never mutated; filtering builds a fresh slice.
func (c *Client) EventsForUser(ctx context.Context, email string, status domain.EventStatus) ([]domain.Event, error) {
	events, err := c.Events.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterEvents(events, email, status), nil
}

// FilterEvents is the pure filtering step of EventsForUser.
func FilterEvents(events []domain.Event, email string, status domain.EventStatus) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if email != "" && !e.AssignedTo(email) {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Page is one window of a client-side paginated list. Pages are 1-based.
type Page[T any] struct {
	Items      []T
	Number     int
	TotalItems int
	TotalPages int
}

// Paginate slices list into pages of perPage items and returns the requested
// page with its position clamped into the valid range. perPage <= 0 yields
// everything as a single page. The input slice is never mutated.
func Paginate[T any](list []T, page, perPage int) Page[T] {
	total := len(list)
	if perPage <= 0 {
		perPage = total
		if perPage == 0 {
			perPage = 1
		}
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	return Page[T]{
		Items:      list[start:end],
		Number:     page,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
