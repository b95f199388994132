package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-push-relay/internal/domain"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// getByID fetches one item by its "id" hash key, projecting only attrs.
func getByID[T any](ctx context.Context, client itemGetter, table, id string, attrs ...string) (*T, error) {
	in := &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       strKey("id", id),
	}
	if len(attrs) > 0 {
		names := make(map[string]string, len(attrs))
		expr := ""
		for i, a := range attrs {
			key := fmt.Sprintf("#a%d", i)
			names[key] = a
			if i > 0 {
				expr += ", "
			}
			expr += key
		}
		in.ProjectionExpression = aws.String(expr)
		in.ExpressionAttributeNames = names
	}

	out, err := client.GetItem(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("get %s item: %w", table, err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("%s item %s: %w", table, id, domain.ErrNotFound)
	}
	var v T
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, fmt.Errorf("unmarshal %s item: %w", table, err)
	}
	return &v, nil
}
