package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pkg/errors"

	"github.com/Stewz00/go-account-service/internal/interfaces"
	"github.com/Stewz00/go-account-service/internal/model"
)

const (
	conditionAbsent  = "attribute_not_exists(#email)"
	conditionPresent = "attribute_exists(#email)"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the repository.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoAccountRepository stores accounts as items keyed by email.
type DynamoAccountRepository struct {
	client DynamoDBAPI
	table  string
	opts   Options
}

var _ interfaces.AccountRepository = (*DynamoAccountRepository)(nil)

// NewDynamoAccountRepository creates a repository over the given table
func NewDynamoAccountRepository(client DynamoDBAPI, table string, opts Options) *DynamoAccountRepository {
	return &DynamoAccountRepository{client: client, table: table, opts: opts}
}

// MarshalAccount produces the stored item shape {email, hashedPassword}.
func MarshalAccount(account *model.Account) (map[string]types.AttributeValue, error) {
	if !account.Valid() {
		return nil, ErrMalformedItem
	}
	return attributevalue.MarshalMap(account)
}

// UnmarshalAccount decodes a stored item. Items missing either attribute are malformed.
func UnmarshalAccount(item map[string]types.AttributeValue) (*model.Account, error) {
	var account model.Account
	if err := attributevalue.UnmarshalMap(item, &account); err != nil {
		return nil, errors.Wrap(err, "unmarshal account")
	}
	if !account.Valid() {
		return nil, ErrMalformedItem
	}
	return &account, nil
}

func accountKey(email string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		model.AttrEmail: &types.AttributeValueMemberS{Value: email},
	}
}

// Exists checks for the key with a key-only projection
func (r *DynamoAccountRepository) Exists(ctx context.Context, email string) (bool, error) {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(r.table),
		Key:                      accountKey(email),
		ProjectionExpression:     aws.String("#email"),
		ExpressionAttributeNames: map[string]string{"#email": model.AttrEmail},
	})
	if err != nil {
		return false, errors.Wrapf(err, "get item %s", r.table)
	}
	return len(out.Item) > 0, nil
}

// Fetch retrieves the account stored under email
func (r *DynamoAccountRepository) Fetch(ctx context.Context, email string) (*model.Account, error) {
	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       accountKey(email),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get item %s", r.table)
	}
	if len(out.Item) == 0 {
		return nil, ErrAccountNotFound
	}
	return UnmarshalAccount(out.Item)
}

// Insert writes a new account, guarded by attribute_not_exists when ConditionalInsert is set
func (r *DynamoAccountRepository) Insert(ctx context.Context, account *model.Account) error {
	condition := ""
	if r.opts.ConditionalInsert {
		condition = conditionAbsent
	}
	err := r.put(ctx, account, condition)
	if isConditionalCheckFailed(err) {
		return ErrDuplicateEmail
	}
	return err
}

// UpdatePassword overwrites the stored hash. With RequireExisting the put is
// conditioned on the key being present; otherwise it creates missing records.
func (r *DynamoAccountRepository) UpdatePassword(ctx context.Context, email, hashedPassword string) error {
	condition := ""
	if r.opts.RequireExisting {
		condition = conditionPresent
	}
	err := r.put(ctx, &model.Account{Email: email, HashedPassword: hashedPassword}, condition)
	if isConditionalCheckFailed(err) {
		return ErrAccountNotFound
	}
	return err
}

func (r *DynamoAccountRepository) put(ctx context.Context, account *model.Account, condition string) error {
	item, err := MarshalAccount(account)
	if err != nil {
		return err
	}

	in := &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	}
	if condition != "" {
		in.ConditionExpression = aws.String(condition)
		in.ExpressionAttributeNames = map[string]string{"#email": model.AttrEmail}
	}

	ctx, cancel := r.opts.withTimeout(ctx)
	defer cancel()

	if _, err := r.client.PutItem(ctx, in); err != nil {
		return errors.Wrapf(err, "put item %s", r.table)
	}
	return nil
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return err != nil && errors.As(err, &ccf)
}
