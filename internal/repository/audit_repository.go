package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/mtljason322/freshcart/internal/events"
	pkgconfig "github.com/mtljason322/freshcart/pkg/config"
)

var ErrDuplicateEvent = errors.New("event already recorded")

// Fixed width so that sort keys order lexically by time.
const eventKeyTimeLayout = "2006-01-02T15:04:05.000000000Z"

// DynamoDBAPI is the subset of the DynamoDB client the audit trail uses.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// auditRecord is the stored form of an event. The table is keyed by
// sku (partition) and event_key (sort), which orders a product's
// history by time.
type auditRecord struct {
	events.InventoryEvent
	EventKey string `dynamodbav:"event_key"`
}

// AuditRepository records inventory events in DynamoDB. It is an
// append-only trail and is never used to rebuild the inventory.
type AuditRepository struct {
	client    DynamoDBAPI
	tableName string
}

func NewDynamoDBClient(ctx context.Context, cfg *pkgconfig.Config) (*dynamodb.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		// DynamoDB Local 등
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	}), nil
}

func NewAuditRepository(client DynamoDBAPI, tableName string) *AuditRepository {
	return &AuditRepository{
		client:    client,
		tableName: tableName,
	}
}

// Publish stores event. Recording the same event twice fails with
// ErrDuplicateEvent.
func (r *AuditRepository) Publish(ctx context.Context, event events.InventoryEvent) error {
	av, err := attributevalue.MarshalMap(auditRecord{
		InventoryEvent: event,
		EventKey:       eventKey(event),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("event_key"))).
		Build()
	if err != nil {
		return err
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrDuplicateEvent
		}
		return fmt.Errorf("failed to put item: %w", err)
	}

	return nil
}

// History returns every recorded event for sku, oldest first.
func (r *AuditRepository) History(ctx context.Context, sku string) ([]events.InventoryEvent, error) {
	keyCond := expression.Key("sku").Equal(expression.Value(sku))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, err
	}

	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
	})

	history := make([]events.InventoryEvent, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query history: %w", err)
		}

		var records []auditRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &records); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history: %w", err)
		}
		for _, rec := range records {
			history = append(history, rec.InventoryEvent)
		}
	}

	return history, nil
}

func eventKey(event events.InventoryEvent) string {
	return event.Timestamp.UTC().Format(eventKeyTimeLayout) + "#" + event.EventID
}
