package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	accountdomain "github.com/pharmatrade/medinv/internal/account/domain"
	"github.com/pharmatrade/medinv/internal/companyctx"
	"github.com/pharmatrade/medinv/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (accountdomain.Service, context.Context) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&accountdomain.Account{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{DB: db, Log: zap.NewNop(), GenID: node})
	return svc, companyctx.WithCompanyID(context.Background(), 1)
}

func createCustomer(t *testing.T, svc accountdomain.Service, ctx context.Context, name string) *accountdomain.Account {
	t.Helper()

	account, err := svc.Create(ctx, accountdomain.CreateAccountRequest{
		Type:           accountdomain.PartyTypeCustomer,
		Name:           name,
		City:           "Lahore",
		AdvanceTaxRate: decimal.NewFromFloat(0.5),
	})
	require.NoError(t, err)
	return account
}

func TestCreateAccount_Validation(t *testing.T) {
	svc, ctx := setupService(t)

	_, err := svc.Create(ctx, accountdomain.CreateAccountRequest{Type: accountdomain.PartyTypeCustomer, Name: "  "})
	assert.ErrorIs(t, err, accountdomain.ErrInvalidName)

	_, err = svc.Create(ctx, accountdomain.CreateAccountRequest{Type: "vendor", Name: "Medico"})
	assert.ErrorIs(t, err, accountdomain.ErrInvalidPartyType)
}

func TestCreateAccount_DefaultsFilerStatus(t *testing.T) {
	svc, ctx := setupService(t)

	account := createCustomer(t, svc, ctx, "City Pharmacy")
	assert.Equal(t, accountdomain.FilerStatusFiler, account.FilerStatus)
	assert.True(t, account.Active)
}

func TestListAccounts_CursorPagination(t *testing.T) {
	svc, ctx := setupService(t)

	for i := 0; i < 5; i++ {
		createCustomer(t, svc, ctx, fmt.Sprintf("Pharmacy %d", i))
	}

	first, err := svc.List(ctx, accountdomain.ListAccountRequest{
		SortBy:     "id",
		OrderBy:    "DESC",
		Pagination: pagination.Pagination{PageSize: 2},
	})
	require.NoError(t, err)
	require.Len(t, first.Accounts, 2)
	require.NotNil(t, first.PageInfo)
	assert.True(t, first.PageInfo.HasMore)
	require.NotEmpty(t, first.PageInfo.NextPageToken)

	seen := map[snowflake.ID]bool{}
	for _, a := range first.Accounts {
		seen[a.ID] = true
	}

	second, err := svc.List(ctx, accountdomain.ListAccountRequest{
		Pagination: pagination.Pagination{PageSize: 2, PageToken: first.PageInfo.NextPageToken},
	})
	require.NoError(t, err)
	require.Len(t, second.Accounts, 2)
	assert.True(t, second.PageInfo.HasMore)
	for _, a := range second.Accounts {
		assert.False(t, seen[a.ID], "page overlap on %s", a.Name)
		seen[a.ID] = true
	}

	third, err := svc.List(ctx, accountdomain.ListAccountRequest{
		Pagination: pagination.Pagination{PageSize: 2, PageToken: second.PageInfo.NextPageToken},
	})
	require.NoError(t, err)
	require.Len(t, third.Accounts, 1)
	assert.False(t, third.PageInfo.HasMore)
	assert.False(t, seen[third.Accounts[0].ID])
}

func TestListAccounts_InvalidPageToken(t *testing.T) {
	svc, ctx := setupService(t)

	_, err := svc.List(ctx, accountdomain.ListAccountRequest{
		Pagination: pagination.Pagination{PageToken: "not-a-cursor"},
	})
	assert.ErrorIs(t, err, accountdomain.ErrInvalidPageToken)
}

func TestListAccounts_SortByName(t *testing.T) {
	svc, ctx := setupService(t)

	createCustomer(t, svc, ctx, "Zam Zam Medical")
	createCustomer(t, svc, ctx, "Al Noor Pharmacy")

	resp, err := svc.List(ctx, accountdomain.ListAccountRequest{SortBy: "name", OrderBy: "ASC"})
	require.NoError(t, err)
	require.Len(t, resp.Accounts, 2)
	assert.Equal(t, "Al Noor Pharmacy", resp.Accounts[0].Name)
	assert.Equal(t, "Zam Zam Medical", resp.Accounts[1].Name)
}

func TestListAccounts_FilterByType(t *testing.T) {
	svc, ctx := setupService(t)

	createCustomer(t, svc, ctx, "City Pharmacy")
	_, err := svc.Create(ctx, accountdomain.CreateAccountRequest{
		Type: accountdomain.PartyTypeSupplier,
		Name: "Getz Pharma",
	})
	require.NoError(t, err)

	supplier := accountdomain.PartyTypeSupplier
	resp, err := svc.List(ctx, accountdomain.ListAccountRequest{Type: &supplier})
	require.NoError(t, err)
	require.Len(t, resp.Accounts, 1)
	assert.Equal(t, "Getz Pharma", resp.Accounts[0].Name)
}

func TestGetAccountByID(t *testing.T) {
	svc, ctx := setupService(t)

	account := createCustomer(t, svc, ctx, "City Pharmacy")

	stored, err := svc.GetByID(ctx, account.ID.String())
	require.NoError(t, err)
	assert.Equal(t, account.Name, stored.Name)

	_, err = svc.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, accountdomain.ErrInvalidID)

	_, err = svc.GetByID(ctx, snowflake.ID(999).String())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
