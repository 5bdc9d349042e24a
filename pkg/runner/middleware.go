package runner

import (
	"context"
	"strings"

	"github.com/aretw0/deckhand/pkg/domain"
)

// ConfirmQuestion is asked before a plan is executed.
const ConfirmQuestion = "Do you want to proceed with these actions?"

// Approver decides whether a whole plan may run. Returning false cancels every call in
// it; a non-nil error aborts the turn.
type Approver func(ctx context.Context, calls []domain.ActionRequest) (bool, error)

// ChainApprovers requires every approver to agree. The first refusal wins.
func ChainApprovers(approvers ...Approver) Approver {
	return func(ctx context.Context, calls []domain.ActionRequest) (bool, error) {
		for _, approve := range approvers {
			ok, err := approve(ctx, calls)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}
}

// ConfirmationApprover asks the user through handler. Only "y" or "yes" approve.
func ConfirmationApprover(handler IOHandler) Approver {
	return func(ctx context.Context, calls []domain.ActionRequest) (bool, error) {
		if err := handler.Output(ctx, Event{Kind: EventConfirm, Text: ConfirmQuestion}); err != nil {
			return false, err
		}

		input, err := handler.Input(ctx)
		if err != nil {
			return false, err
		}

		input = strings.TrimSpace(strings.ToLower(input))
		return input == "y" || input == "yes", nil
	}
}

// AutoApprove allows everything.
func AutoApprove() Approver {
	return func(ctx context.Context, calls []domain.ActionRequest) (bool, error) {
		return true, nil
	}
}

// DenyActions refuses any plan that contains one of the named actions.
func DenyActions(names ...string) Approver {
	denied := make(map[string]struct{}, len(names))
	for _, n := range names {
		denied[n] = struct{}{}
	}
	return func(ctx context.Context, calls []domain.ActionRequest) (bool, error) {
		for _, c := range calls {
			if _, ok := denied[c.Name]; ok {
				return false, nil
			}
		}
		return true, nil
	}
}
