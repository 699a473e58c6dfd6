package dbx

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuerier struct {
	lastInput *dynamodb.QueryInput
	items     []map[string]types.AttributeValue
}

func (f *fakeQuerier) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.lastInput = in
	return &dynamodb.QueryOutput{Items: f.items}, nil
}

func TestVendorConfigUppercasesKeys(t *testing.T) {
	q := &fakeQuerier{items: []map[string]types.AttributeValue{
		{
			"vendor":   &types.AttributeValueMemberS{Value: "ACME"},
			"endpoint": &types.AttributeValueMemberS{Value: "ftp://acme.example.com"},
		},
	}}

	items, err := VendorConfig(context.Background(), q, "vendor-configs", "acme", "north")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ftp://acme.example.com", items[0]["endpoint"])

	require.NotNil(t, q.lastInput)
	assert.Equal(t, "vendor-configs", *q.lastInput.TableName)
	assert.Equal(t, "vendor = :vendor AND brokerage = :brokerage", *q.lastInput.KeyConditionExpression)
	vendor := q.lastInput.ExpressionAttributeValues[":vendor"].(*types.AttributeValueMemberS)
	assert.Equal(t, "ACME", vendor.Value)
	brokerage := q.lastInput.ExpressionAttributeValues[":brokerage"].(*types.AttributeValueMemberS)
	assert.Equal(t, "NORTH", brokerage.Value)
}

func TestVendorConfigWithoutBrokerage(t *testing.T) {
	q := &fakeQuerier{}
	_, err := VendorConfig(context.Background(), q, "vendor-configs", "acme", "")
	require.NoError(t, err)
	assert.Equal(t, "vendor = :vendor", *q.lastInput.KeyConditionExpression)
	assert.NotContains(t, q.lastInput.ExpressionAttributeValues, ":brokerage")
}

func TestDumpVendorConfigs(t *testing.T) {
	q := &fakeQuerier{items: []map[string]types.AttributeValue{
		{"vendor": &types.AttributeValueMemberS{Value: "ACME"}},
	}}
	dir := t.TempDir()

	data, err := DumpVendorConfigs(context.Background(), q, "vendor-configs", []string{"acme", "zenith"}, dir)
	require.NoError(t, err)
	require.Len(t, data, 2)

	raw, err := os.ReadFile(filepath.Join(dir, "configs.json"))
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Len(t, decoded, 2)
	assert.Contains(t, decoded[0], "acme")
	assert.Contains(t, decoded[1], "zenith")
}
