package event_bus

const (
	TransactionChangedEvent EventType = "transaction.changed"
	BudgetChangedEvent      EventType = "budget.changed"
	CategoryChangedEvent    EventType = "category.changed"
)

type ChangeType string

const (
	Created ChangeType = "created"
	Updated ChangeType = "updated"
	Deleted ChangeType = "deleted"
)

type TransactionChanged struct {
	UserId        int
	TransactionId int
	Change        ChangeType
}

type BudgetChanged struct {
	UserId   int
	BudgetId int
	Change   ChangeType
}

// CategoryChanged carries the category name after the change; empty for deletions.
type CategoryChanged struct {
	UserId     int
	CategoryId int
	Name       string
	Change     ChangeType
}
