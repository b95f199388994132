package dynamo

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/charmbracelet/log"
	"github.com/go-push-relay/internal/config"
)

type tableCreator interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Bootstrap creates the stories and profiles tables if they don't already exist.
// Only meant for LocalStack; production tables are owned by the application that writes them.
func Bootstrap(ctx context.Context, client tableCreator, tables config.Tables, logger *log.Logger) {
	for _, name := range []string{tables.Stories, tables.Profiles} {
		createTable(ctx, client, logger, &dynamodb.CreateTableInput{
			TableName:   aws.String(name),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			},
		})
	}
}

func createTable(ctx context.Context, client tableCreator, logger *log.Logger, input *dynamodb.CreateTableInput) {
	_, err := client.CreateTable(ctx, input)
	if err != nil {
		// ResourceInUseException means the table already exists.
		var riue *types.ResourceInUseException
		if !errors.As(err, &riue) {
			logger.Warn("could not create table", "table", *input.TableName, "err", err)
		}
		return
	}
	logger.Info("created table", "table", *input.TableName)
}
