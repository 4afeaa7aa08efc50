package schema

import (
	"strings"

	"github.com/gerhard-ee/dbtschema/internal/profile"
)

// DefaultMaxAcceptedValues is the largest distinct count that still gets an accepted_values test
const DefaultMaxAcceptedValues = 20

// allNullWarning flags columns that hold no values at all
const allNullWarning = "!"

// Inference is the outcome of the test rules for one column
type Inference struct {
	NotNull     bool
	Unique      bool
	Categorical bool
	AllNull     bool
}

// Any reports whether at least one test applies
func (i Inference) Any() bool {
	return i.NotNull || i.Unique || i.Categorical
}

// Infer applies the not_null, unique and accepted_values rules to a profiled column
func Infer(col *profile.Column, maxAcceptedValues int) (Inference, error) {
	distinctCount, err := col.Meta.DistinctCount()
	if err != nil {
		return Inference{}, err
	}
	isUnique, err := col.Meta.IsUnique()
	if err != nil {
		return Inference{}, err
	}
	notNullProportion, err := col.Meta.NotNullProportion()
	if err != nil {
		return Inference{}, err
	}

	allNull := notNullProportion == 0
	dataType := col.Meta.DataType

	return Inference{
		NotNull: notNullProportion == 1,
		Unique:  isUnique,
		Categorical: !IsBoolean(dataType) &&
			!IsNumeric(dataType) &&
			distinctCount <= maxAcceptedValues &&
			!allNull,
		AllNull: allNull,
	}, nil
}

var (
	booleanTypes = map[string]bool{"bool": true, "boolean": true}
	numericTypes = map[string]bool{
		"numeric": true, "decimal": true, "number": true, "bignumeric": true,
		"float": true, "float4": true, "float8": true, "float32": true, "float64": true,
		"double": true, "double precision": true, "real": true, "money": true,
	}
	stringTypes = map[string]bool{
		"string": true, "text": true, "varchar": true, "char": true, "bpchar": true,
		"character": true, "character varying": true, "nvarchar": true, "nchar": true,
		"ntext": true, "json": true,
	}
)

// baseType lower-cases a type and drops any precision suffix such as (10,2)
func baseType(dataType string) string {
	t := strings.ToLower(strings.TrimSpace(dataType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

// IsBoolean reports whether the type holds booleans
func IsBoolean(dataType string) bool {
	return booleanTypes[baseType(dataType)]
}

// IsNumeric reports whether the type holds non-integer numbers
func IsNumeric(dataType string) bool {
	return numericTypes[baseType(dataType)]
}

// IsString reports whether dbt should quote the type's accepted values
func IsString(dataType string) bool {
	return stringTypes[baseType(dataType)]
}
