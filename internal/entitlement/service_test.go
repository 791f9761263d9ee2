package entitlement

import (
	"context"
	"testing"
	"time"

	"gymdesk/internal/apperr"
	"gymdesk/internal/audit"
	"gymdesk/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockEntitlementRepo struct{ mock.Mock }

func (m *MockEntitlementRepo) Redeem(ctx context.Context, p RedeemParams) (*SessionRedemption, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SessionRedemption), args.Error(1)
}

func (m *MockEntitlementRepo) GetActiveSubscription(ctx context.Context, tenantID, memberID int, at time.Time) (*Subscription, error) {
	args := m.Called(ctx, tenantID, memberID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockEntitlementRepo) ListPassesByMember(ctx context.Context, tenantID, memberID int) ([]EntryPass, error) {
	args := m.Called(ctx, tenantID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]EntryPass), args.Error(1)
}

func (m *MockEntitlementRepo) ListSubscriptionsByMember(ctx context.Context, tenantID, memberID int) ([]Subscription, error) {
	args := m.Called(ctx, tenantID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Subscription), args.Error(1)
}

type sinkStub struct{ entries []audit.Entry }

func (s *sinkStub) Record(_ context.Context, entry audit.Entry) {
	s.entries = append(s.entries, entry)
}

func TestService_Redeem(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	actor := auth.Actor{ID: 50, Role: auth.RoleFrontdesk, TenantID: 1, BranchID: 2}
	passID := 3
	bookingID := 10

	tests := []struct {
		name       string
		req        RedeemRequest
		setupMocks func(*MockEntitlementRepo)
		wantErr    error
	}{
		{
			name: "pass redemption",
			req:  RedeemRequest{MemberID: 9, Kind: KindPass, PassID: &passID, BookingID: &bookingID},
			setupMocks: func(r *MockEntitlementRepo) {
				r.On("Redeem", mock.Anything, RedeemParams{
					TenantID:  1,
					MemberID:  9,
					Kind:      KindPass,
					BookingID: &bookingID,
					PassID:    &passID,
					Quantity:  1,
					CreatedBy: 50,
					Now:       now,
				}).Return(&SessionRedemption{ID: 1, MemberID: 9, Kind: KindPass, Quantity: 1}, nil)
			},
		},
		{
			name: "monthly checks subscription validity first",
			req:  RedeemRequest{MemberID: 9, Kind: KindMonthly},
			setupMocks: func(r *MockEntitlementRepo) {
				r.On("GetActiveSubscription", mock.Anything, 1, 9, now).
					Return(&Subscription{ID: 5, MemberID: 9, Status: SubscriptionStatusActive}, nil)
				r.On("Redeem", mock.Anything, mock.Anything).
					Return(&SessionRedemption{ID: 2, MemberID: 9, Kind: KindMonthly, Quantity: 1}, nil)
			},
		},
		{
			name: "monthly without active subscription",
			req:  RedeemRequest{MemberID: 9, Kind: KindMonthly},
			setupMocks: func(r *MockEntitlementRepo) {
				r.On("GetActiveSubscription", mock.Anything, 1, 9, now).
					Return(nil, apperr.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:       "pass without pass_id",
			req:        RedeemRequest{MemberID: 9, Kind: KindPass},
			setupMocks: func(r *MockEntitlementRepo) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name:       "negative quantity",
			req:        RedeemRequest{MemberID: 9, Kind: KindPass, PassID: &passID, Quantity: -2},
			setupMocks: func(r *MockEntitlementRepo) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name: "balance exhausted",
			req:  RedeemRequest{MemberID: 9, Kind: KindPass, PassID: &passID},
			setupMocks: func(r *MockEntitlementRepo) {
				r.On("Redeem", mock.Anything, mock.Anything).Return(nil, apperr.ErrInsufficientBalance)
			},
			wantErr: apperr.ErrInsufficientBalance,
		},
		{
			name: "booking already redeemed",
			req:  RedeemRequest{MemberID: 9, Kind: KindPass, PassID: &passID, BookingID: &bookingID},
			setupMocks: func(r *MockEntitlementRepo) {
				r.On("Redeem", mock.Anything, mock.Anything).Return(nil, apperr.ErrDuplicateRedemption)
			},
			wantErr: apperr.ErrDuplicateRedemption,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockEntitlementRepo)
			sink := &sinkStub{}
			tt.setupMocks(repo)

			svc := NewService(repo, sink).(*service)
			svc.now = func() time.Time { return now }

			redemption, err := svc.Redeem(context.Background(), actor, tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, redemption)
				assert.Empty(t, sink.entries)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, redemption)
				assert.Len(t, sink.entries, 1)
				assert.Equal(t, audit.ActionSessionRedeemed, sink.entries[0].Action)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_ListMy(t *testing.T) {
	actor := auth.Actor{ID: 9, Role: auth.RoleMember, TenantID: 1}
	repo := new(MockEntitlementRepo)

	repo.On("ListPassesByMember", mock.Anything, 1, 9).Return([]EntryPass{{ID: 3, Remaining: 5}}, nil)
	repo.On("ListSubscriptionsByMember", mock.Anything, 1, 9).Return([]Subscription{{ID: 5}}, nil)

	svc := NewService(repo, &sinkStub{})

	passes, err := svc.ListMyPasses(context.Background(), actor)
	assert.NoError(t, err)
	assert.Len(t, passes, 1)

	subs, err := svc.ListMySubscriptions(context.Background(), actor)
	assert.NoError(t, err)
	assert.Len(t, subs, 1)

	repo.AssertExpectations(t)
}
