package domain

import "time"

// TransactionAction is an audited operation on a transaction.
type TransactionAction string

const (
	ActionCreate  TransactionAction = "CREATE"
	ActionSubmit  TransactionAction = "SUBMIT"
	ActionEdit    TransactionAction = "EDIT"
	ActionApprove TransactionAction = "APPROVE"
	ActionReject  TransactionAction = "REJECT"
	ActionVoid    TransactionAction = "VOID"
)

// WorkflowActions returns the actions a caller may request on an existing transaction.
func WorkflowActions() []TransactionAction {
	return []TransactionAction{ActionSubmit, ActionEdit, ActionApprove, ActionReject, ActionVoid}
}

func (a TransactionAction) IsValid() bool {
	switch a {
	case ActionCreate, ActionSubmit, ActionEdit, ActionApprove, ActionReject, ActionVoid:
		return true
	}
	return false
}

// ResultingStatus returns the status the action moves a transaction into.
// The boolean is false when the action leaves the status unchanged.
func (a TransactionAction) ResultingStatus() (TransactionStatus, bool) {
	switch a {
	case ActionCreate:
		return Draft, true
	case ActionSubmit:
		return Pending, true
	case ActionApprove:
		return Approved, true
	case ActionReject:
		return Rejected, true
	case ActionVoid:
		return Void, true
	case ActionEdit:
		return "", false
	}
	return "", false
}

// RequiresComment is true for actions that must carry a reason.
func (a TransactionAction) RequiresComment() bool {
	switch a {
	case ActionReject, ActionVoid:
		return true
	case ActionCreate, ActionSubmit, ActionEdit, ActionApprove:
		return false
	}
	return false
}

// CanPerformOn reports whether the action is available for a transaction in status s.
func (a TransactionAction) CanPerformOn(s TransactionStatus) bool {
	switch a {
	case ActionSubmit:
		return s == Draft || s == Rejected
	case ActionEdit:
		return s.IsEditable()
	case ActionApprove, ActionReject:
		return s == Pending
	case ActionVoid:
		return s == Approved
	case ActionCreate:
		return false
	}
	return false
}

func (a TransactionAction) Label() string {
	switch a {
	case ActionCreate:
		return "Create"
	case ActionSubmit:
		return "Submit for Approval"
	case ActionEdit:
		return "Edit"
	case ActionApprove:
		return "Approve"
	case ActionReject:
		return "Reject"
	case ActionVoid:
		return "Void"
	}
	return string(a)
}

// TransactionLog is an append-only audit record.
type TransactionLog struct {
	LogID         string            `json:"logID"`
	TransactionID string            `json:"transactionID"`
	ActorID       string            `json:"actorID"` // Opaque, never dereferenced
	Action        TransactionAction `json:"action"`
	Comment       *string           `json:"comment"`
	CreatedAt     time.Time         `json:"createdAt"`
}
