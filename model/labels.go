package model

// MatchKind says how a filter value is compared against a product field.
type MatchKind int

const (
	MatchContains MatchKind = iota
	MatchEquals
)

// FilterField is the product column and comparison a filter label maps to.
type FilterField struct {
	Field Field
	Kind  MatchKind
}

// Display labels used in formatted products, filters and facets.
const (
	LabelBrand         = "品牌"
	LabelMaterial      = "材质"
	LabelSpecification = "规格"
	LabelColor         = "颜色"
	LabelModel         = "型号"
	LabelLength        = "长度"
	LabelWeight        = "重量"
	LabelWattage       = "功率"
	LabelPressure      = "压力"
	LabelDegree        = "角度"
	LabelProductType   = "产品类型"
	LabelUsageType     = "用途类型"
	LabelSubType       = "子类型"
)

var filterLabels = map[string]FilterField{
	LabelBrand:         {FieldBrand, MatchContains},
	LabelMaterial:      {FieldMaterial, MatchContains},
	LabelSpecification: {FieldSpecification, MatchContains},
	LabelColor:         {FieldColor, MatchContains},
	LabelModel:         {FieldModel, MatchContains},
	LabelLength:        {FieldLength, MatchContains},
	LabelWeight:        {FieldWeight, MatchContains},
	LabelPressure:      {FieldPressure, MatchContains},
	LabelDegree:        {FieldDegree, MatchContains},
	LabelWattage:       {FieldWattage, MatchContains},
	LabelProductType:   {FieldProductType, MatchEquals},
	LabelUsageType:     {FieldUsageType, MatchEquals},
	LabelSubType:       {FieldSubType, MatchEquals},
}

// AttributeLabel pairs a product field with its display label.
type AttributeLabel struct {
	Field Field
	Label string
}

// DisplayAttributes lists the attributes a formatted product may expose, in output order.
var DisplayAttributes = []AttributeLabel{
	{FieldBrand, LabelBrand},
	{FieldMaterial, LabelMaterial},
	{FieldSpecification, LabelSpecification},
	{FieldColor, LabelColor},
	{FieldModel, LabelModel},
	{FieldLength, LabelLength},
	{FieldWeight, LabelWeight},
	{FieldWattage, LabelWattage},
	{FieldPressure, LabelPressure},
	{FieldDegree, LabelDegree},
	{FieldProductType, LabelProductType},
	{FieldUsageType, LabelUsageType},
	{FieldSubType, LabelSubType},
}

// FacetAttributes lists the facet-eligible attributes.
var FacetAttributes = []AttributeLabel{
	{FieldBrand, LabelBrand},
	{FieldMaterial, LabelMaterial},
	{FieldSpecification, LabelSpecification},
	{FieldColor, LabelColor},
	{FieldLength, LabelLength},
	{FieldWeight, LabelWeight},
	{FieldPressure, LabelPressure},
	{FieldDegree, LabelDegree},
	{FieldWattage, LabelWattage},
	{FieldProductType, LabelProductType},
	{FieldUsageType, LabelUsageType},
	{FieldSubType, LabelSubType},
}

// FilterFieldForLabel resolves a filter label, or the field name itself, to its column.
func FilterFieldForLabel(label string) (FilterField, bool) {
	if ff, ok := filterLabels[label]; ok {
		return ff, true
	}
	for _, ff := range filterLabels {
		if string(ff.Field) == label {
			return ff, true
		}
	}
	return FilterField{}, false
}

// FieldForAttribute resolves an attribute name given either as a column name or a display label.
func FieldForAttribute(attribute string) (Field, bool) {
	for _, a := range DisplayAttributes {
		if string(a.Field) == attribute || a.Label == attribute {
			return a.Field, true
		}
	}
	return "", false
}
