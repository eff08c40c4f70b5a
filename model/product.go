package model

// Product is a read-only snapshot of a row in the product_info table.
// Physical attributes are free-form text that may embed a number and a unit ("DN50", "1.6MPa").
type Product struct {
	ID            string  `json:"id" yaml:"id" toml:"id" db:"id"`
	Code          string  `json:"code" yaml:"code" toml:"code" db:"code"`
	Name          string  `json:"name" yaml:"name" toml:"name" db:"name"`
	ProductName   string  `json:"product_name,omitempty" yaml:"product_name,omitempty" toml:"product_name,omitempty" db:"product_name"`
	Description   string  `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty" db:"description"`
	Brand         string  `json:"brand,omitempty" yaml:"brand,omitempty" toml:"brand,omitempty" db:"brand"`
	Material      string  `json:"material,omitempty" yaml:"material,omitempty" toml:"material,omitempty" db:"material"`
	Specification string  `json:"specification,omitempty" yaml:"specification,omitempty" toml:"specification,omitempty" db:"specification"`
	Color         string  `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty" db:"color"`
	Model         string  `json:"model,omitempty" yaml:"model,omitempty" toml:"model,omitempty" db:"model"`
	Length        string  `json:"length,omitempty" yaml:"length,omitempty" toml:"length,omitempty" db:"length"`
	Weight        string  `json:"weight,omitempty" yaml:"weight,omitempty" toml:"weight,omitempty" db:"weight"`
	Wattage       string  `json:"wattage,omitempty" yaml:"wattage,omitempty" toml:"wattage,omitempty" db:"wattage"`
	Pressure      string  `json:"pressure,omitempty" yaml:"pressure,omitempty" toml:"pressure,omitempty" db:"pressure"`
	Degree        string  `json:"degree,omitempty" yaml:"degree,omitempty" toml:"degree,omitempty" db:"degree"`
	Price         *string `json:"price,omitempty" yaml:"price,omitempty" toml:"price,omitempty" db:"price"`
	ProductType   string  `json:"product_type,omitempty" yaml:"product_type,omitempty" toml:"product_type,omitempty" db:"product_type"`
	UsageType     string  `json:"usage_type,omitempty" yaml:"usage_type,omitempty" toml:"usage_type,omitempty" db:"usage_type"`
	SubType       string  `json:"sub_type,omitempty" yaml:"sub_type,omitempty" toml:"sub_type,omitempty" db:"sub_type"`
}

// Field names a text column of the product table. The value doubles as the column name.
type Field string

const (
	FieldID            Field = "id"
	FieldCode          Field = "code"
	FieldName          Field = "name"
	FieldProductName   Field = "product_name"
	FieldDescription   Field = "description"
	FieldBrand         Field = "brand"
	FieldMaterial      Field = "material"
	FieldSpecification Field = "specification"
	FieldColor         Field = "color"
	FieldModel         Field = "model"
	FieldLength        Field = "length"
	FieldWeight        Field = "weight"
	FieldWattage       Field = "wattage"
	FieldPressure      Field = "pressure"
	FieldDegree        Field = "degree"
	FieldProductType   Field = "product_type"
	FieldUsageType     Field = "usage_type"
	FieldSubType       Field = "sub_type"
)

// TextFields lists every text column in table order.
var TextFields = []Field{
	FieldID, FieldCode, FieldName, FieldProductName, FieldDescription,
	FieldBrand, FieldMaterial, FieldSpecification, FieldColor, FieldModel,
	FieldLength, FieldWeight, FieldWattage, FieldPressure, FieldDegree,
	FieldProductType, FieldUsageType, FieldSubType,
}

// IsValid reports whether f is a known product column.
func (f Field) IsValid() bool {
	for _, known := range TextFields {
		if f == known {
			return true
		}
	}
	return false
}

// Value returns the text stored in field f, or "" for unknown fields.
func (p Product) Value(f Field) string {
	switch f {
	case FieldID:
		return p.ID
	case FieldCode:
		return p.Code
	case FieldName:
		return p.Name
	case FieldProductName:
		return p.ProductName
	case FieldDescription:
		return p.Description
	case FieldBrand:
		return p.Brand
	case FieldMaterial:
		return p.Material
	case FieldSpecification:
		return p.Specification
	case FieldColor:
		return p.Color
	case FieldModel:
		return p.Model
	case FieldLength:
		return p.Length
	case FieldWeight:
		return p.Weight
	case FieldWattage:
		return p.Wattage
	case FieldPressure:
		return p.Pressure
	case FieldDegree:
		return p.Degree
	case FieldProductType:
		return p.ProductType
	case FieldUsageType:
		return p.UsageType
	case FieldSubType:
		return p.SubType
	}
	return ""
}

// ValueCount is one distinct attribute value and the number of products carrying it.
type ValueCount struct {
	Value string `json:"value" db:"value"`
	Count int    `json:"count" db:"n"`
}
