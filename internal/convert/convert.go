// Package convert maps between wire DTOs and domain entities. All functions
// are pure; malformed input is a caller error, not something handled here.
package convert

import (
	"strings"
	"time"

	"larplaner/internal/domain"
	"larplaner/internal/wire"
)

// --- helpers ---

func tagIDs(tags []domain.Tag) []string {
	if tags == nil {
		return nil
	}
	ids := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func fromWireTags(tags []wire.Tag) []domain.Tag {
	if tags == nil {
		return nil
	}
	out := make([]domain.Tag, len(tags))
	for i, t := range tags {
		out[i] = FromTag(t)
	}
	return out
}

// --- Tag ---

func FromTag(dto wire.Tag) domain.Tag {
	return domain.Tag{
		ID:                  dto.ID,
		Value:               dto.Value,
		IsUnique:            dto.IsUnique,
		ExpiresAfterMinutes: dto.ExpiresAfterMinutes,
	}
}

func ToTagRequest(t domain.Tag) wire.TagRequest {
	return wire.TagRequest{
		Value:               t.Value,
		IsUnique:            t.IsUnique,
		ExpiresAfterMinutes: t.ExpiresAfterMinutes,
	}
}

// --- Role ---

// FromRole resolves nothing: the backend already returns tag objects on role
// responses. ToRoleRequest collapses them back to ids.
func FromRole(dto wire.Role) domain.Role {
	return domain.Role{
		ID:          dto.ID,
		Name:        dto.Name,
		Description: dto.Description,
		Tags:        fromWireTags(dto.Tags),
	}
}

func ToRoleRequest(r domain.Role) wire.RoleRequest {
	return wire.RoleRequest{
		Name:        r.Name,
		Description: r.Description,
		Tags:        tagIDs(r.Tags),
	}
}

// --- Event ---

func FromEvent(dto wire.Event) domain.Event {
	date, _ := time.Parse(time.RFC3339, dto.Date)
	e := domain.Event{
		ID:            dto.ID,
		Name:          dto.Name,
		Img:           dto.Img,
		Description:   dto.Description,
		Status:        domain.EventStatus(strings.ToLower(dto.Status)),
		Date:          date,
		ScenarioID:    dto.ScenarioID,
		GameSessionID: dto.GameSessionID,
	}
	if dto.AssignedRoles != nil {
		e.AssignedRoles = make([]domain.AssignedRole, len(dto.AssignedRoles))
		for i, ar := range dto.AssignedRoles {
			e.AssignedRoles[i] = domain.AssignedRole{
				ScenarioRoleID: ar.ScenarioRoleID,
				AssignedEmail:  ar.AssignedEmail,
			}
		}
	}
	return e
}

func ToEventRequest(e domain.Event) wire.EventRequest {
	req := wire.EventRequest{
		Name:        e.Name,
		Img:         e.Img,
		Description: e.Description,
		Date:        e.Date.Format(time.RFC3339),
		ScenarioID:  e.ScenarioID,
	}
	if e.AssignedRoles != nil {
		req.AssignedRoles = make([]wire.AssignedRole, len(e.AssignedRoles))
		for i, ar := range e.AssignedRoles {
			req.AssignedRoles[i] = wire.AssignedRole{
				ScenarioRoleID: ar.ScenarioRoleID,
				AssignedEmail:  ar.AssignedEmail,
			}
		}
	}
	return req
}

// --- Scenario ---

func fromWireAction(dto wire.Action) domain.Action {
	return domain.Action{
		ID:                     dto.ID,
		Name:                   dto.Name,
		Description:            dto.Description,
		MessageOnSuccess:       dto.MessageOnSuccess,
		MessageOnFailure:       dto.MessageOnFailure,
		RequiredTagsToDisplay:  fromWireTags(dto.RequiredTagsToDisplay),
		RequiredTagsToSucceed:  fromWireTags(dto.RequiredTagsToSucceed),
		ForbiddenTagsToDisplay: fromWireTags(dto.ForbiddenTagsToDisplay),
		ForbiddenTagsToSucceed: fromWireTags(dto.ForbiddenTagsToSucceed),
		TagsToApplyOnSuccess:   fromWireTags(dto.TagsToApplyOnSuccess),
		TagsToApplyOnFailure:   fromWireTags(dto.TagsToApplyOnFailure),
		TagsToRemoveOnSuccess:  fromWireTags(dto.TagsToRemoveOnSuccess),
		TagsToRemoveOnFailure:  fromWireTags(dto.TagsToRemoveOnFailure),
	}
}

func toActionRequest(a domain.Action) wire.ActionRequest {
	return wire.ActionRequest{
		ID:                     a.ID,
		Name:                   a.Name,
		Description:            a.Description,
		MessageOnSuccess:       a.MessageOnSuccess,
		MessageOnFailure:       a.MessageOnFailure,
		RequiredTagsToDisplay:  tagIDs(a.RequiredTagsToDisplay),
		RequiredTagsToSucceed:  tagIDs(a.RequiredTagsToSucceed),
		ForbiddenTagsToDisplay: tagIDs(a.ForbiddenTagsToDisplay),
		ForbiddenTagsToSucceed: tagIDs(a.ForbiddenTagsToSucceed),
		TagsToApplyOnSuccess:   tagIDs(a.TagsToApplyOnSuccess),
		TagsToApplyOnFailure:   tagIDs(a.TagsToApplyOnFailure),
		TagsToRemoveOnSuccess:  tagIDs(a.TagsToRemoveOnSuccess),
		TagsToRemoveOnFailure:  tagIDs(a.TagsToRemoveOnFailure),
	}
}

func FromScenario(dto wire.Scenario) domain.Scenario {
	s := domain.Scenario{
		ID:          dto.ID,
		Name:        dto.Name,
		Description: dto.Description,
	}
	for _, r := range dto.Roles {
		s.Roles = append(s.Roles, domain.ScenarioRole{
			ID:                   r.ID,
			RoleID:               r.RoleID,
			ScenarioID:           r.ScenarioID,
			DescriptionForGM:     r.DescriptionForGM,
			DescriptionForOwner:  r.DescriptionForOwner,
			DescriptionForOthers: r.DescriptionForOthers,
		})
	}
	for _, it := range dto.Items {
		item := domain.ScenarioItem{
			ID:          it.ID,
			ScenarioID:  it.ScenarioID,
			Name:        it.Name,
			Description: it.Description,
		}
		for _, a := range it.Actions {
			item.Actions = append(item.Actions, fromWireAction(a))
		}
		s.Items = append(s.Items, item)
	}
	for _, a := range dto.Actions {
		s.Actions = append(s.Actions, fromWireAction(a))
	}
	return s
}

func ToScenarioRequest(s domain.Scenario) wire.ScenarioRequest {
	req := wire.ScenarioRequest{
		Name:        s.Name,
		Description: s.Description,
	}
	for _, r := range s.Roles {
		req.Roles = append(req.Roles, wire.ScenarioRoleRequest{
			ID:                   r.ID,
			RoleID:               r.RoleID,
			ScenarioID:           r.ScenarioID,
			DescriptionForGM:     r.DescriptionForGM,
			DescriptionForOwner:  r.DescriptionForOwner,
			DescriptionForOthers: r.DescriptionForOthers,
		})
	}
	for _, it := range s.Items {
		item := wire.ScenarioItemRequest{
			ID:          it.ID,
			ScenarioID:  it.ScenarioID,
			Name:        it.Name,
			Description: it.Description,
		}
		for _, a := range it.Actions {
			item.Actions = append(item.Actions, toActionRequest(a))
		}
		req.Items = append(req.Items, item)
	}
	for _, a := range s.Actions {
		req.Actions = append(req.Actions, toActionRequest(a))
	}
	return req
}

// --- GameSession ---

// Game session payloads have identical wire and domain shapes; the converters
// exist so the game resource plugs into the same generic machinery.
func FromGameSession(dto wire.GameSession) domain.GameSession {
	g := domain.GameSession{
		ID:        dto.ID,
		EventID:   dto.EventID,
		Status:    domain.GameStatus(dto.Status),
		StartTime: dto.StartTime,
		EndTime:   dto.EndTime,
	}
	for _, rs := range dto.AssignedRoles {
		state := domain.GameRoleState{
			ID:             rs.ID,
			ScenarioRoleID: rs.ScenarioRoleID,
			AssignedEmail:  rs.AssignedEmail,
			AssignedUserID: rs.AssignedUserID,
		}
		for _, at := range rs.AppliedTags {
			state.AppliedTags = append(state.AppliedTags, domain.AppliedTag{
				ID:        at.ID,
				Tag:       FromTag(at.Tag),
				AppliedAt: at.AppliedAt,
			})
		}
		g.AssignedRoles = append(g.AssignedRoles, state)
	}
	for _, is := range dto.Items {
		g.Items = append(g.Items, domain.GameItemState{
			ID:                is.ID,
			ScenarioItemID:    is.ScenarioItemID,
			CurrentHolderRole: is.CurrentHolderRole,
		})
	}
	for _, al := range dto.Actions {
		g.Actions = append(g.Actions, fromWireActionLog(al))
	}
	return g
}

func fromWireActionLog(dto wire.GameActionLog) domain.GameActionLog {
	return domain.GameActionLog{
		ID:              dto.ID,
		SessionID:       dto.SessionID,
		ActionID:        dto.ActionID,
		Timestamp:       dto.Timestamp,
		PerformerRoleID: dto.PerformerRoleID,
		TargetItemID:    dto.TargetItemID,
		Success:         dto.Success,
		AppliedTags:     fromWireTags(dto.AppliedTags),
		RemovedTags:     fromWireTags(dto.RemovedTags),
		Message:         dto.Message,
	}
}

func ToGameSessionRequest(g domain.GameSession) wire.GameSessionRequest {
	req := wire.GameSessionRequest{
		EventID:   g.EventID,
		Status:    string(g.Status),
		StartTime: g.StartTime,
		EndTime:   g.EndTime,
	}
	for _, rs := range g.AssignedRoles {
		state := wire.GameRoleState{
			ID:             rs.ID,
			ScenarioRoleID: rs.ScenarioRoleID,
			AssignedEmail:  rs.AssignedEmail,
			AssignedUserID: rs.AssignedUserID,
		}
		for _, at := range rs.AppliedTags {
			state.AppliedTags = append(state.AppliedTags, wire.AppliedTag{
				ID:        at.ID,
				Tag:       toWireTag(at.Tag),
				AppliedAt: at.AppliedAt,
			})
		}
		req.AssignedRoles = append(req.AssignedRoles, state)
	}
	for _, is := range g.Items {
		req.Items = append(req.Items, wire.GameItemState{
			ID:                is.ID,
			ScenarioItemID:    is.ScenarioItemID,
			CurrentHolderRole: is.CurrentHolderRole,
		})
	}
	for _, al := range g.Actions {
		req.Actions = append(req.Actions, wire.GameActionLog{
			ID:              al.ID,
			SessionID:       al.SessionID,
			ActionID:        al.ActionID,
			Timestamp:       al.Timestamp,
			PerformerRoleID: al.PerformerRoleID,
			TargetItemID:    al.TargetItemID,
			Success:         al.Success,
			AppliedTags:     toWireTags(al.AppliedTags),
			RemovedTags:     toWireTags(al.RemovedTags),
			Message:         al.Message,
		})
	}
	return req
}

func toWireTag(t domain.Tag) wire.Tag {
	return wire.Tag{
		ID:                  t.ID,
		Value:               t.Value,
		IsUnique:            t.IsUnique,
		ExpiresAfterMinutes: t.ExpiresAfterMinutes,
	}
}

func toWireTags(tags []domain.Tag) []wire.Tag {
	if tags == nil {
		return nil
	}
	out := make([]wire.Tag, len(tags))
	for i, t := range tags {
		out[i] = toWireTag(t)
	}
	return out
}

// --- User ---

func FromUser(dto wire.User) domain.User {
	return domain.User(dto)
}
