package service

import "context"

// FailClosed exposes the account operations as plain booleans. Every failure,
// whether a duplicate, a missing account, a wrong password or an unreachable
// store, reports false. Errors are already logged by AccountService.
type FailClosed struct {
	svc *AccountService
}

func NewFailClosed(svc *AccountService) *FailClosed {
	return &FailClosed{svc: svc}
}

func (f *FailClosed) Register(ctx context.Context, email, password string) bool {
	return f.svc.Register(ctx, email, password) == nil
}

func (f *FailClosed) Login(ctx context.Context, email, password string) bool {
	return f.svc.Login(ctx, email, password) == nil
}

func (f *FailClosed) AccountExists(ctx context.Context, email string) bool {
	exists, err := f.svc.AccountExists(ctx, email)
	return err == nil && exists
}

func (f *FailClosed) UpdatePassword(ctx context.Context, email, password string) bool {
	return f.svc.UpdatePassword(ctx, email, password) == nil
}
