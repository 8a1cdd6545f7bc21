// Package wire holds the DTO shapes exchanged with the LARPlaner backend.
// Response DTOs carry server-assigned ids and resolved tag objects; request
// DTOs omit ids and reference tags by id.
package wire

type Tag struct {
	ID                  string `json:"id"`
	Value               string `json:"value"`
	IsUnique            bool   `json:"isUnique,omitempty"`
	ExpiresAfterMinutes int    `json:"expiresAfterMinutes,omitempty"`
}

type TagRequest struct {
	Value               string `json:"value"`
	IsUnique            bool   `json:"isUnique,omitempty"`
	ExpiresAfterMinutes int    `json:"expiresAfterMinutes,omitempty"`
}

type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Tags        []Tag  `json:"tags,omitempty"`
}

type RoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type AssignedRole struct {
	ScenarioRoleID string `json:"scenarioRoleId"`
	AssignedEmail  string `json:"assignedEmail"`
}

type Event struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Img           string         `json:"img,omitempty"`
	Description   string         `json:"description,omitempty"`
	Status        string         `json:"status,omitempty"`
	Date          string         `json:"date"`
	ScenarioID    string         `json:"scenarioId,omitempty"`
	GameSessionID string         `json:"gameSessionId,omitempty"`
	AssignedRoles []AssignedRole `json:"assignedRoles,omitempty"`
}

type EventRequest struct {
	Name          string         `json:"name"`
	Img           string         `json:"img,omitempty"`
	Description   string         `json:"description,omitempty"`
	Date          string         `json:"date"`
	ScenarioID    string         `json:"scenarioId,omitempty"`
	AssignedRoles []AssignedRole `json:"assignedRoles,omitempty"`
}

type UpdateEventStatusRequest struct {
	Status string `json:"status" enum:"UPCOMING,ACTIVE,HISTORIC"`
}

type Action struct {
	ID                     string `json:"id"`
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

type ActionRequest struct {
	ID                     string   `json:"id,omitempty"`
	Name                   string   `json:"name"`
	Description            string   `json:"description,omitempty"`
	MessageOnSuccess       string   `json:"messageOnSuccess,omitempty"`
	MessageOnFailure       string   `json:"messageOnFailure,omitempty"`
	RequiredTagsToDisplay  []string `json:"requiredTagsToDisplay,omitempty"`
	RequiredTagsToSucceed  []string `json:"requiredTagsToSucceed,omitempty"`
	ForbiddenTagsToDisplay []string `json:"forbiddenTagsToDisplay,omitempty"`
	ForbiddenTagsToSucceed []string `json:"forbiddenTagsToSucceed,omitempty"`
	TagsToApplyOnSuccess   []string `json:"tagsToApplyOnSuccess,omitempty"`
	TagsToApplyOnFailure   []string `json:"tagsToApplyOnFailure,omitempty"`
	TagsToRemoveOnSuccess  []string `json:"tagsToRemoveOnSuccess,omitempty"`
	TagsToRemoveOnFailure  []string `json:"tagsToRemoveOnFailure,omitempty"`
}

type ScenarioRole struct {
	ID                   string `json:"id"`
	RoleID               string `json:"roleId"`
	ScenarioID           string `json:"scenarioId,omitempty"`
	DescriptionForGM     string `json:"descriptionForGM,omitempty"`
	DescriptionForOwner  string `json:"descriptionForOwner,omitempty"`
	DescriptionForOthers string `json:"descriptionForOthers,omitempty"`
}

type ScenarioRoleRequest struct {
	ID                   string `json:"id,omitempty"`
	RoleID               string `json:"roleId"`
	ScenarioID           string `json:"scenarioId,omitempty"`
	DescriptionForGM     string `json:"descriptionForGM,omitempty"`
	DescriptionForOwner  string `json:"descriptionForOwner,omitempty"`
	DescriptionForOthers string `json:"descriptionForOthers,omitempty"`
}

type ScenarioItem struct {
	ID          string   `json:"id"`
	ScenarioID  string   `json:"scenarioId,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Actions     []Action `json:"actions,omitempty"`
}

type ScenarioItemRequest struct {
	ID          string          `json:"id,omitempty"`
	ScenarioID  string          `json:"scenarioId,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Actions     []ActionRequest `json:"actions,omitempty"`
}

type Scenario struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Roles       []ScenarioRole `json:"roles,omitempty"`
	Items       []ScenarioItem `json:"items,omitempty"`
	Actions     []Action       `json:"actions,omitempty"`
}

type ScenarioRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Roles       []ScenarioRoleRequest `json:"roles,omitempty"`
	Items       []ScenarioItemRequest `json:"items,omitempty"`
	Actions     []ActionRequest       `json:"actions,omitempty"`
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
	ID            string          `json:"id"`
	EventID       string          `json:"eventId"`
	Status        string          `json:"status,omitempty"`
	StartTime     string          `json:"startTime,omitempty"`
	EndTime       string          `json:"endTime,omitempty"`
	AssignedRoles []GameRoleState `json:"assignedRoles,omitempty"`
	Items         []GameItemState `json:"items,omitempty"`
	Actions       []GameActionLog `json:"actions,omitempty"`
}

type GameSessionRequest struct {
	EventID       string          `json:"eventId"`
	Status        string          `json:"status,omitempty"`
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
