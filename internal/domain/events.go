package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	// Selection notifications carry the affected selection's id.
	EventSelectionCreated EventType = "create"
	EventSelectionUpdated EventType = "update"
	EventSelectionRemoved EventType = "remove"

	EventError         EventType = "Error"
	EventConfigLoaded  EventType = "ConfigLoaded"
	EventConfigSaved   EventType = "ConfigSaved"
	EventConfigChanged EventType = "ConfigChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SelectionEvent is implemented by the three selection notifications
type SelectionEvent interface {
	DomainEvent
	SelectionID() SelectionID
}

// SelectionCreatedEvent is emitted when a new selection is inserted
type SelectionCreatedEvent struct {
	ID SelectionID
}

func (e SelectionCreatedEvent) Type() EventType           { return EventSelectionCreated }
func (e SelectionCreatedEvent) SelectionID() SelectionID { return e.ID }

// SelectionUpdatedEvent is emitted whenever a selection's bounds were written
type SelectionUpdatedEvent struct {
	ID SelectionID
}

func (e SelectionUpdatedEvent) Type() EventType           { return EventSelectionUpdated }
func (e SelectionUpdatedEvent) SelectionID() SelectionID { return e.ID }

// SelectionRemovedEvent is emitted after a selection has been deleted
type SelectionRemovedEvent struct {
	ID SelectionID
}

func (e SelectionRemovedEvent) Type() EventType           { return EventSelectionRemoved }
func (e SelectionRemovedEvent) SelectionID() SelectionID { return e.ID }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ConfigChangedEvent is emitted when the config file changed on disk and was reloaded.
// Config holds the freshly parsed value; its concrete type lives in the config package.
type ConfigChangedEvent struct {
	Path   string
	Config any
}

func (e ConfigChangedEvent) Type() EventType { return EventConfigChanged }
