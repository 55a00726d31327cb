package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/joho/godotenv"

	"github.com/Stewz00/go-account-service/internal/config"
	"github.com/Stewz00/go-account-service/internal/database"
	"github.com/Stewz00/go-account-service/internal/handler"
	"github.com/Stewz00/go-account-service/internal/metrics"
	"github.com/Stewz00/go-account-service/internal/repository"
	"github.com/Stewz00/go-account-service/internal/service"
	"github.com/Stewz00/go-account-service/internal/test"
)

var (
	testDB     *database.DynamoDB
	testRouter http.Handler
)

func TestMain(m *testing.M) {
	// Set up test environment
	if err := godotenv.Load("../../../.env.test"); err != nil {
		fmt.Printf("Warning: .env.test file not found: %v\n", err)
	}

	if os.Getenv("DYNAMODB_ENDPOINT") == "" {
		fmt.Println("DYNAMODB_ENDPOINT not set, skipping integration tests")
		os.Exit(0)
	}
	// DynamoDB Local accepts any credentials
	if os.Getenv("AWS_ACCESS_KEY_ID") == "" {
		os.Setenv("AWS_ACCESS_KEY_ID", "local")
		os.Setenv("AWS_SECRET_ACCESS_KEY", "local")
	}
	os.Setenv("STORE_BACKEND", config.BackendDynamoDB)
	os.Setenv("DYNAMODB_TABLE", fmt.Sprintf("Users_test_%d", time.Now().UnixNano()))

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	testDB, err = database.NewDynamoDB(ctx, cfg.DynamoDB)
	if err != nil {
		fmt.Printf("Failed to connect to DynamoDB: %v\n", err)
		os.Exit(1)
	}
	if err := createTable(ctx, testDB); err != nil {
		fmt.Printf("Failed to create table: %v\n", err)
		os.Exit(1)
	}

	testRouter = setupTestRouter(testDB, cfg)

	code := m.Run()

	// Clean up
	_, _ = testDB.Client.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String(testDB.Table)})
	testDB.Close()
	os.Exit(code)
}

func createTable(ctx context.Context, db *database.DynamoDB) error {
	_, err := db.Client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(db.Table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("email"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("email"), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return err
	}
	waiter := dynamodb.NewTableExistsWaiter(db.Client)
	return waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(db.Table)}, 30*time.Second)
}

func setupTestRouter(db *database.DynamoDB, cfg *config.Config) http.Handler {
	repo := repository.NewDynamoAccountRepository(db.Client, db.Table, repository.Options{
		Timeout:           cfg.StoreTimeout,
		ConditionalInsert: true,
	})
	accountService := service.NewAccountService(repo, test.NewHasher(), test.DiscardLogger())
	m := metrics.New()
	return handler.NewRouter(handler.NewAccountHandler(accountService, m, true), test.DiscardLogger(), m)
}

func send(t *testing.T, method, target string, body any) (int, handler.AccountResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)

	var resp handler.AccountResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return w.Code, resp
}

func TestRegisterLoginUpdateFlow(t *testing.T) {
	user := map[string]string{
		"email":    "integration@test.com",
		"password": "testpassword123",
	}

	t.Run("register", func(t *testing.T) {
		if code, _ := send(t, http.MethodPost, "/accounts/register", user); code != http.StatusCreated {
			t.Errorf("expected status %d, got %d", http.StatusCreated, code)
		}
	})

	t.Run("duplicate register", func(t *testing.T) {
		code, resp := send(t, http.MethodPost, "/accounts/register", user)
		if code != http.StatusConflict || resp.Error != "duplicate" {
			t.Errorf("expected %d/duplicate, got %d/%s", http.StatusConflict, code, resp.Error)
		}
	})

	t.Run("exists", func(t *testing.T) {
		_, resp := send(t, http.MethodGet, "/accounts/exists?email=integration@test.com", nil)
		if resp.Exists == nil || !*resp.Exists {
			t.Errorf("expected account to exist, got %+v", resp)
		}
	})

	t.Run("login", func(t *testing.T) {
		if code, _ := send(t, http.MethodPost, "/accounts/login", user); code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, code)
		}
	})

	t.Run("update password", func(t *testing.T) {
		updated := map[string]string{"email": user["email"], "password": "newpassword456"}
		if code, _ := send(t, http.MethodPut, "/accounts/password", updated); code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, code)
		}
		if code, _ := send(t, http.MethodPost, "/accounts/login", user); code != http.StatusUnauthorized {
			t.Errorf("old password: expected status %d, got %d", http.StatusUnauthorized, code)
		}
		if code, _ := send(t, http.MethodPost, "/accounts/login", updated); code != http.StatusOK {
			t.Errorf("new password: expected status %d, got %d", http.StatusOK, code)
		}
	})
}

func TestConditionalWrites(t *testing.T) {
	ctx := context.Background()
	strict := repository.NewDynamoAccountRepository(testDB.Client, testDB.Table, repository.Options{
		ConditionalInsert: true,
		RequireExisting:   true,
	})

	if err := strict.UpdatePassword(ctx, "ghost@test.com", "hash"); !errors.Is(err, repository.ErrAccountNotFound) {
		t.Errorf("expected %v, got %v", repository.ErrAccountNotFound, err)
	}

	upsert := repository.NewDynamoAccountRepository(testDB.Client, testDB.Table, repository.Options{})
	if err := upsert.UpdatePassword(ctx, "ghost@test.com", "hash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok, err := upsert.Exists(ctx, "ghost@test.com"); err != nil || !ok {
		t.Errorf("expected upsert to create the account, got exists=%v err=%v", ok, err)
	}
}
