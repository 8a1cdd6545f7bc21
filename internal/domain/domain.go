package domain

import "time"

// Entity ids are backend-assigned UUID strings. An empty ID means the value
// has not been persisted yet; creation requests never carry one.

type EventStatus string

const (
	EventUpcoming EventStatus = "upcoming"
	EventActive   EventStatus = "active"
	EventHistoric EventStatus = "historic"
)

type GameStatus string

const (
	GamePending  GameStatus = "pending"
	GameActive   GameStatus = "active"
	GameFinished GameStatus = "finished"
)

type Tag struct {
	ID                  string `json:"id,omitempty"`
	Value               string `json:"value"`
	IsUnique            bool   `json:"isUnique,omitempty"`
	ExpiresAfterMinutes int    `json:"expiresAfterMinutes,omitempty"`
}

// Role carries resolved Tag objects; on the wire a role creation/update
// references tags by id only.
type Role struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Tags        []Tag  `json:"tags,omitempty"`
}

type AssignedRole struct {
	ScenarioRoleID string `json:"scenarioRoleId"`
	AssignedEmail  string `json:"assignedEmail"`
}

type Event struct {
	ID            string         `json:"id,omitempty"`
	Name          string         `json:"name"`
	Img           string         `json:"img,omitempty"`
	Description   string         `json:"description,omitempty"`
	Status        EventStatus    `json:"status,omitempty"`
	Date          time.Time      `json:"date"`
	ScenarioID    string         `json:"scenarioId,omitempty"`
	GameSessionID string         `json:"gameSessionId,omitempty"`
	AssignedRoles []AssignedRole `json:"assignedRoles,omitempty"`
}

// AssignedTo reports whether any of the event's roles is assigned to email.
func (e Event) AssignedTo(email string) bool {
	for _, ar := range e.AssignedRoles {
		if ar.AssignedEmail == email {
			return true
		}
	}
	return false
}

// Action is an in-game action defined on a scenario or a scenario item. The
// tag lists gate visibility and outcome; they hold resolved Tag objects in
// memory and collapse to id lists on the wire.
type Action struct {
	ID                     string `json:"id,omitempty"`
	Name                   string `json:"name"`
	Description            string `json:"description,omitempty"`
	MessageOnSuccess       string `json:"messageOnSuccess,omitempty"`
	MessageOnFailure       string `json:"messageOnFailure,omitempty"`
	RequiredTagsToDisplay  []Tag  `json:"requiredTagsToDisplay,omitempty"`
	RequiredTagsToSucceed  []Tag  `json:"requiredTagsToSucceed,omitempty"`
	ForbiddenTagsToDisplay []Tag  `json:"forbiddenTagsToDisplay,omitempty"`
	ForbiddenTagsToSucceed []Tag  `json:"forbiddenTagsToSucceed,omitempty"`
	TagsToApplyOnSuccess   []Tag  `json:"tagsToApplyOnSuccess,omitempty"`
	TagsToApplyOnFailure   []Tag  `json:"tagsToApplyOnFailure,omitempty"`
	TagsToRemoveOnSuccess  []Tag  `json:"tagsToRemoveOnSuccess,omitempty"`
	TagsToRemoveOnFailure  []Tag  `json:"tagsToRemoveOnFailure,omitempty"`
}

type ScenarioRole struct {
	ID                   string `json:"id,omitempty"`
	RoleID               string `json:"roleId"`
	ScenarioID           string `json:"scenarioId,omitempty"`
	DescriptionForGM     string `json:"descriptionForGM,omitempty"`
	DescriptionForOwner  string `json:"descriptionForOwner,omitempty"`
	DescriptionForOthers string `json:"descriptionForOthers,omitempty"`
}

type ScenarioItem struct {
	ID          string   `json:"id,omitempty"`
	ScenarioID  string   `json:"scenarioId,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Actions     []Action `json:"actions,omitempty"`
}

type Scenario struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Roles       []ScenarioRole `json:"roles,omitempty"`
	Items       []ScenarioItem `json:"items,omitempty"`
	Actions     []Action       `json:"actions,omitempty"`
}

type AppliedTag struct {
	ID        string `json:"id,omitempty"`
	Tag       Tag    `json:"tag"`
	AppliedAt string `json:"appliedAt,omitempty"`
}

type GameRoleState struct {
	ID             string       `json:"id,omitempty"`
	ScenarioRoleID string       `json:"scenarioRoleId"`
	AssignedEmail  string       `json:"assignedEmail,omitempty"`
	AssignedUserID string       `json:"assignedUserId,omitempty"`
	AppliedTags    []AppliedTag `json:"appliedTags,omitempty"`
}

type GameItemState struct {
	ID                string `json:"id,omitempty"`
	ScenarioItemID    string `json:"scenarioItemId"`
	CurrentHolderRole string `json:"currentHolderRoleId,omitempty"`
}

type GameActionLog struct {
	ID              string `json:"id,omitempty"`
	SessionID       string `json:"sessionId,omitempty"`
	ActionID        string `json:"actionId"`
	Timestamp       string `json:"timestamp,omitempty"`
	PerformerRoleID string `json:"performerRoleId"`
	TargetItemID    string `json:"targetItemId,omitempty"`
	Success         bool   `json:"success"`
	AppliedTags     []Tag  `json:"appliedTags,omitempty"`
	RemovedTags     []Tag  `json:"removedTags,omitempty"`
	Message         string `json:"message,omitempty"`
}

type GameSession struct {
	ID            string          `json:"id,omitempty"`
	EventID       string          `json:"eventId"`
	Status        GameStatus      `json:"status,omitempty"`
	StartTime     string          `json:"startTime,omitempty"`
	EndTime       string          `json:"endTime,omitempty"`
	AssignedRoles []GameRoleState `json:"assignedRoles,omitempty"`
	Items         []GameItemState `json:"items,omitempty"`
	Actions       []GameActionLog `json:"actions,omitempty"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Admin bool   `json:"admin,omitempty"`
}
