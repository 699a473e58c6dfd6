package dbx

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoQuerier is the slice of the DynamoDB client the config lookups use.
type DynamoQuerier interface {
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// NewDynamoClient builds a DynamoDB client for region from the ambient AWS
// credentials.
func NewDynamoClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

// VendorConfig queries the vendor-config table by vendor, and by brokerage
// when one is given. Both keys are matched upper-cased.
func VendorConfig(ctx context.Context, client DynamoQuerier, table, vendor, brokerage string) ([]map[string]any, error) {
	keyCond := "vendor = :vendor"
	values := map[string]types.AttributeValue{
		":vendor": &types.AttributeValueMemberS{Value: strings.ToUpper(vendor)},
	}
	if brokerage != "" {
		keyCond += " AND brokerage = :brokerage"
		values[":brokerage"] = &types.AttributeValueMemberS{Value: strings.ToUpper(brokerage)}
	}
	out, err := client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		KeyConditionExpression:    aws.String(keyCond),
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return nil, fmt.Errorf("query vendor config for %s: %w", vendor, err)
	}
	var items []map[string]any
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("decode vendor config for %s: %w", vendor, err)
	}
	return items, nil
}

// DumpVendorConfigs fetches the configs of every vendor and writes them as
// one JSON document under dir, returning the collected data.
func DumpVendorConfigs(ctx context.Context, client DynamoQuerier, table string, vendors []string, dir string) ([]map[string]any, error) {
	data := make([]map[string]any, 0, len(vendors))
	for _, vendor := range vendors {
		items, err := VendorConfig(ctx, client, table, vendor, "")
		if err != nil {
			return nil, err
		}
		data = append(data, map[string]any{vendor: items})
	}
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode vendor configs: %w", err)
	}
	path := filepath.Join(dir, "configs.json")
	if err := os.WriteFile(path, encoded, 0o600); err != nil {
		return nil, fmt.Errorf("write vendor configs %s: %w", path, err)
	}
	return data, nil
}
