package allocation

type CreatedEvent struct {
	Result Allocation
}

type UpdatedEvent struct {
	Previous Allocation
	Result   Allocation
}

type DeletedEvent struct {
	Result Allocation
}

func NewCreatedEvent(result Allocation) *CreatedEvent {
	return &CreatedEvent{Result: result}
}

func NewUpdatedEvent(previous, result Allocation) *UpdatedEvent {
	return &UpdatedEvent{Previous: previous, Result: result}
}

func NewDeletedEvent(result Allocation) *DeletedEvent {
	return &DeletedEvent{Result: result}
}
