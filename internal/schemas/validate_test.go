package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSpecRecord(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
		field   string
	}{
		{
			name: "complete record",
			doc: `{"brand_name": "Hoka", "model": "Clifton 9", "heel_height": 32, "forefoot_height": 24,
				"drop": 8, "weight": 252, "price": 145, "upper_breathability": "high", "carbon_plate": false,
				"waterproof": null, "primary_use": "daily training", "cushioning_type": "balanced",
				"surface_type": "road", "foot_width": "standard", "additional_features": null}`,
		},
		{
			name: "nulls are allowed",
			doc:  `{"brand_name": "Nike", "model": "Pegasus 41", "heel_height": null, "surface_type": null}`,
		},
		{
			name:    "missing model",
			doc:     `{"brand_name": "Nike"}`,
			wantErr: true,
			field:   "(root)",
		},
		{
			name:    "price out of range",
			doc:     `{"brand_name": "Nike", "model": "Vaporfly 3", "price": 1200}`,
			wantErr: true,
			field:   "price",
		},
		{
			name:    "height as text",
			doc:     `{"brand_name": "Nike", "model": "Vaporfly 3", "heel_height": "40mm"}`,
			wantErr: true,
			field:   "heel_height",
		},
		{
			name:    "unknown enum",
			doc:     `{"brand_name": "Nike", "model": "Vaporfly 3", "surface_type": "track"}`,
			wantErr: true,
			field:   "surface_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpecRecord(tt.doc)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			require.NotEmpty(t, ve.Errors)
			assert.Equal(t, tt.field, ve.Errors[0].Field)
		})
	}
}

func TestValidateSpecRecord_MalformedDocument(t *testing.T) {
	err := ValidateSpecRecord(`{"brand_name": `)
	assert.Error(t, err)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "ok"}`))

	err := ValidateJSONString(schema, `{"name": 3}`)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"name: Invalid type. Expected: string, given: integer"}, ve.Messages())

	err = ValidateJSONString(`{"type": 12}`, `{}`)
	var le *SchemaLoadError
	assert.True(t, errors.As(err, &le))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "price", Message: "Must be less than or equal to 500"},
		{Field: "model", Message: "model is required"},
	}}
	assert.Equal(t, "validation failed:\n  1. price: Must be less than or equal to 500\n  2. model: model is required\n", err.Error())
}

func TestSpecRecordSchema(t *testing.T) {
	assert.Contains(t, SpecRecordSchema(), `"brand_name"`)
}
