/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"

	"github.com/suparena/fieldstore/datastore"
	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/schema"
	"github.com/suparena/fieldstore/storagemodels"
)

// Key attribute names of the single-table layout: PK holds the collection,
// SK the document id.
const (
	AttrPK = "PK"
	AttrSK = "SK"
)

// MaxTransactItems is the DynamoDB limit on writes per transaction.
const MaxTransactItems = 100

// API is the subset of the DynamoDB client used by the store.
type API interface {
	GetItem(ctx context.Context, in *sdk.GetItemInput, opts ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, in *sdk.PutItemInput, opts ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *sdk.DeleteItemInput, opts ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	Query(ctx context.Context, in *sdk.QueryInput, opts ...func(*sdk.Options)) (*sdk.QueryOutput, error)
	TransactWriteItems(ctx context.Context, in *sdk.TransactWriteItemsInput, opts ...func(*sdk.Options)) (*sdk.TransactWriteItemsOutput, error)
	CreateTable(ctx context.Context, in *sdk.CreateTableInput, opts ...func(*sdk.Options)) (*sdk.CreateTableOutput, error)
}

var (
	_ API                     = (*sdk.Client)(nil)
	_ datastore.DocumentStore = (*DynamodbDataStore)(nil)
)

// Config holds the client settings. Empty credentials fall back to the
// default AWS credential chain.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Table           string
	Endpoint        string // optional, e.g. DynamoDB Local
}

// DynamodbDataStore implements datastore.DocumentStore on a single DynamoDB
// table.
type DynamodbDataStore struct {
	client    API
	tableName string
	logger    *slog.Logger
	newID     func() (string, error)
}

// Option configures a DynamodbDataStore
type Option func(*DynamodbDataStore)

// WithLogger sets the store logger
func WithLogger(l *slog.Logger) Option {
	return func(d *DynamodbDataStore) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithIDFunc replaces the ULID generator used by AllocateID
func WithIDFunc(f func() (string, error)) Option {
	return func(d *DynamodbDataStore) {
		d.newID = f
	}
}

func newULID() (string, error) {
	id, err := strfmt.NewULID()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// NewDynamoDBClient initializes a DynamoDB client from cfg.
func NewDynamoDBClient(ctx context.Context, cfg Config) (*sdk.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(awsCfg, func(o *sdk.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// New wraps an existing client.
func New(client API, tableName string, opts ...Option) *DynamodbDataStore {
	d := &DynamodbDataStore{
		client:    client,
		tableName: tableName,
		logger:    slog.Default(),
		newID:     newULID,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDynamodbDataStore builds a client from cfg and wraps it.
func NewDynamodbDataStore(ctx context.Context, cfg Config, opts ...Option) (*DynamodbDataStore, error) {
	if cfg.Table == "" {
		return nil, errors.NewValidationError("table", "dynamodb table name is required")
	}
	client, err := NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return nil, errors.NewStoreError("connect", "", err)
	}
	d := New(client, cfg.Table, opts...)
	d.logger.Info("dynamodb client initialized", "table", cfg.Table, "region", cfg.Region)
	return d, nil
}

func itemKey(ref storagemodels.DocumentRef) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrPK: &types.AttributeValueMemberS{Value: ref.Collection},
		AttrSK: &types.AttributeValueMemberS{Value: ref.ID},
	}
}

// Get retrieves a document with a strongly consistent read.
func (d *DynamodbDataStore) Get(ctx context.Context, ref storagemodels.DocumentRef) (storagemodels.Document, error) {
	if err := ref.Validate(); err != nil {
		return storagemodels.Document{}, err
	}
	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:      &d.tableName,
		Key:            itemKey(ref),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return storagemodels.Document{}, errors.NewStoreError("get", ref.Collection, err)
	}
	if out.Item == nil {
		return storagemodels.Document{}, errors.NewNotFoundError(ref.Collection, ref.ID)
	}
	data, err := fromItem(ref, out.Item)
	if err != nil {
		return storagemodels.Document{}, err
	}
	return storagemodels.Document{Ref: ref, Data: data}, nil
}

func (d *DynamodbDataStore) put(ref storagemodels.DocumentRef, payload map[string]any, overwrite bool) (*types.Put, error) {
	p, err := schema.NormalizeDocument(ref, payload)
	if err != nil {
		return nil, err
	}
	item, err := toItem(ref, p)
	if err != nil {
		return nil, err
	}
	put := &types.Put{TableName: &d.tableName, Item: item}
	if !overwrite {
		put.ConditionExpression = aws.String("attribute_not_exists(" + AttrPK + ")")
	}
	return put, nil
}

// Set stores a document. Without overwrite the put is conditioned on the
// item not existing.
func (d *DynamodbDataStore) Set(ctx context.Context, ref storagemodels.DocumentRef, payload map[string]any, overwrite bool) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	put, err := d.put(ref, payload, overwrite)
	if err != nil {
		return err
	}
	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:           put.TableName,
		Item:                put.Item,
		ConditionExpression: put.ConditionExpression,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if stderrors.As(err, &cfe) {
			return errors.NewAlreadyExistsError(ref.Collection, ref.ID)
		}
		return errors.NewStoreError("set", ref.Collection, err)
	}
	return nil
}

// Delete removes an item; deleting a missing item succeeds.
func (d *DynamodbDataStore) Delete(ctx context.Context, ref storagemodels.DocumentRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	_, err := d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &d.tableName,
		Key:       itemKey(ref),
	})
	return errors.NewStoreError("delete", ref.Collection, err)
}

// AllocateID returns a new ULID. ULIDs sort by creation time.
func (d *DynamodbDataStore) AllocateID(ctx context.Context, collection string) (string, error) {
	if err := storagemodels.ValidateCollection(collection); err != nil {
		return "", err
	}
	id, err := d.newID()
	if err != nil {
		return "", errors.NewStoreError("allocate id", collection, err)
	}
	return id, nil
}

// Commit applies writes with TransactWriteItems.
func (d *DynamodbDataStore) Commit(ctx context.Context, writes []storagemodels.Write) error {
	if len(writes) == 0 {
		return nil
	}
	if len(writes) > MaxTransactItems {
		return errors.NewValidationError("writes",
			fmt.Sprintf("a batch holds at most %d writes, got %d", MaxTransactItems, len(writes)))
	}

	if err := storagemodels.ValidateWrites(writes); err != nil {
		return err
	}
	items := make([]types.TransactWriteItem, len(writes))
	for i, w := range writes {
		if w.Delete {
			items[i] = types.TransactWriteItem{Delete: &types.Delete{
				TableName: &d.tableName,
				Key:       itemKey(w.Ref),
			}}
			continue
		}
		put, err := d.put(w.Ref, w.Payload, w.Overwrite)
		if err != nil {
			return err
		}
		items[i] = types.TransactWriteItem{Put: put}
	}

	_, err := d.client.TransactWriteItems(ctx, &sdk.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		return nil
	}
	var tce *types.TransactionCanceledException
	if stderrors.As(err, &tce) {
		for i, reason := range tce.CancellationReasons {
			if i < len(writes) && aws.ToString(reason.Code) == "ConditionalCheckFailed" {
				return errors.NewAlreadyExistsError(writes[i].Ref.Collection, writes[i].Ref.ID)
			}
		}
	}
	d.logger.Warn("dynamodb transaction failed", "writes", len(writes), "error", err)
	return errors.NewStoreError("commit", "", err)
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (d *DynamodbDataStore) Close() error {
	return nil
}
