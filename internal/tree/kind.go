package tree

// Kind is the closed set of node categories.
type Kind uint8

const (
	KindInvalidNode Kind = iota

	KindRoot
	KindCompilationUnit
	KindDefinition
	KindInstance
	KindInstanceBody
	KindPort
	KindNet
	KindVariable
	KindParameter
	KindGenvar
	KindContinuousAssign
	KindProceduralBlock
	KindGenerateBlock
	KindGenerateBlockArray
	KindPrimitiveInstance
	KindConnection
	KindAttribute

	// statements
	KindBlock
	KindExpressionStatement
	KindConditionalStatement
	KindCaseStatement
	KindCaseItem
	KindTimedStatement
	KindSignalEvent
	KindImplicitEvent
	KindEmptyStatement
	KindInvalidStatement

	// expressions
	KindIntegerLiteral
	KindUnbasedUnsizedLiteral
	KindRealLiteral
	KindStringLiteral
	KindNamedValue
	KindUnaryOp
	KindBinaryOp
	KindConditionalOp
	KindElementSelect
	KindRangeSelect
	KindConcatenation
	KindReplication
	KindAssignment
	KindConversion
	KindCall
	KindInvalid

	// types
	KindScalarType
	KindIntegerType
	KindPackedArrayType
	KindRealType
	KindStringType
	KindVoidType
	KindErrorType
	KindNetType

	kindCount
)

// Category groups kinds for dispatch.
type Category uint8

const (
	CatOther Category = iota
	CatSymbol
	CatStatement
	CatExpression
	CatType
)

// KindInfo is the per-kind schema: the document name and the attribute
// names a node of this kind may carry, in canonical order.
type KindInfo struct {
	Name     string
	Category Category
	Attrs    []string
}

var kindTable = [kindCount]KindInfo{
	KindInvalidNode: {Name: "InvalidNode"},

	KindRoot:               {Name: "Root", Category: CatSymbol},
	KindCompilationUnit:    {Name: "CompilationUnit", Category: CatSymbol, Attrs: []string{"file", "missing"}},
	KindDefinition:         {Name: "Definition", Category: CatSymbol, Attrs: []string{"name", "file", "portCount", "parameterCount", "instanceCount"}},
	KindInstance:           {Name: "Instance", Category: CatSymbol, Attrs: []string{"name", "path"}},
	KindInstanceBody:       {Name: "InstanceBody", Category: CatSymbol, Attrs: []string{"name", "depth"}},
	KindPort:               {Name: "Port", Category: CatSymbol, Attrs: []string{"name", "direction"}},
	KindNet:                {Name: "Net", Category: CatSymbol, Attrs: []string{"name", "implicit"}},
	KindVariable:           {Name: "Variable", Category: CatSymbol, Attrs: []string{"name"}},
	KindParameter:          {Name: "Parameter", Category: CatSymbol, Attrs: []string{"name", "isLocal", "isPort", "overridden", "value"}},
	KindGenvar:             {Name: "Genvar", Category: CatSymbol, Attrs: []string{"name"}},
	KindContinuousAssign:   {Name: "ContinuousAssign", Category: CatSymbol},
	KindProceduralBlock:    {Name: "ProceduralBlock", Category: CatSymbol, Attrs: []string{"procedureKind"}},
	KindGenerateBlock:      {Name: "GenerateBlock", Category: CatSymbol, Attrs: []string{"name", "constructIndex", "isUninstantiated", "arrayIndex"}},
	KindGenerateBlockArray: {Name: "GenerateBlockArray", Category: CatSymbol, Attrs: []string{"name", "constructIndex", "iterations"}},
	KindPrimitiveInstance:  {Name: "PrimitiveInstance", Category: CatSymbol, Attrs: []string{"name", "primitiveType"}},
	KindConnection:         {Name: "Connection", Category: CatOther, Attrs: []string{"port", "implicit"}},
	KindAttribute:          {Name: "Attribute", Category: CatOther, Attrs: []string{"name", "value"}},

	KindBlock:                {Name: "Block", Category: CatStatement, Attrs: []string{"name", "blockKind"}},
	KindExpressionStatement:  {Name: "ExpressionStatement", Category: CatStatement},
	KindConditionalStatement: {Name: "ConditionalStatement", Category: CatStatement, Attrs: []string{"hasElse"}},
	KindCaseStatement:        {Name: "CaseStatement", Category: CatStatement, Attrs: []string{"condition"}},
	KindCaseItem:             {Name: "CaseItem", Category: CatStatement, Attrs: []string{"isDefault"}},
	KindTimedStatement:       {Name: "TimedStatement", Category: CatStatement},
	KindSignalEvent:          {Name: "SignalEvent", Category: CatOther, Attrs: []string{"edge"}},
	KindImplicitEvent:        {Name: "ImplicitEvent", Category: CatOther},
	KindEmptyStatement:       {Name: "EmptyStatement", Category: CatStatement},
	KindInvalidStatement:     {Name: "InvalidStatement", Category: CatStatement},

	KindIntegerLiteral:        {Name: "IntegerLiteral", Category: CatExpression, Attrs: []string{"value", "constant"}},
	KindUnbasedUnsizedLiteral: {Name: "UnbasedUnsizedLiteral", Category: CatExpression, Attrs: []string{"value", "constant"}},
	KindRealLiteral:           {Name: "RealLiteral", Category: CatExpression, Attrs: []string{"value"}},
	KindStringLiteral:         {Name: "StringLiteral", Category: CatExpression, Attrs: []string{"literal", "constant"}},
	KindNamedValue:            {Name: "NamedValue", Category: CatExpression, Attrs: []string{"name", "constant"}},
	KindUnaryOp:               {Name: "UnaryOp", Category: CatExpression, Attrs: []string{"op", "constant"}},
	KindBinaryOp:              {Name: "BinaryOp", Category: CatExpression, Attrs: []string{"op", "constant"}},
	KindConditionalOp:         {Name: "ConditionalOp", Category: CatExpression, Attrs: []string{"constant"}},
	KindElementSelect:         {Name: "ElementSelect", Category: CatExpression, Attrs: []string{"constant"}},
	KindRangeSelect:           {Name: "RangeSelect", Category: CatExpression, Attrs: []string{"selectionKind", "constant"}},
	KindConcatenation:         {Name: "Concatenation", Category: CatExpression, Attrs: []string{"constant"}},
	KindReplication:           {Name: "Replication", Category: CatExpression, Attrs: []string{"count", "constant"}},
	KindAssignment:            {Name: "Assignment", Category: CatExpression, Attrs: []string{"isNonBlocking"}},
	KindConversion:            {Name: "Conversion", Category: CatExpression, Attrs: []string{"conversionKind", "constant"}},
	KindCall:                  {Name: "Call", Category: CatExpression, Attrs: []string{"subroutine", "constant"}},
	KindInvalid:               {Name: "Invalid", Category: CatExpression},

	KindScalarType:      {Name: "ScalarType", Category: CatType, Attrs: []string{"name", "signed"}},
	KindIntegerType:     {Name: "IntegerType", Category: CatType, Attrs: []string{"name", "width", "signed", "fourState"}},
	KindPackedArrayType: {Name: "PackedArrayType", Category: CatType, Attrs: []string{"name", "msb", "lsb", "width", "signed"}},
	KindRealType:        {Name: "RealType", Category: CatType, Attrs: []string{"name"}},
	KindStringType:      {Name: "StringType", Category: CatType, Attrs: []string{"name"}},
	KindVoidType:        {Name: "VoidType", Category: CatType, Attrs: []string{"name"}},
	KindErrorType:       {Name: "ErrorType", Category: CatType, Attrs: []string{"name"}},
	KindNetType:         {Name: "NetType", Category: CatType, Attrs: []string{"name"}},
}

// Info returns the schema entry of k.
func (k Kind) Info() KindInfo {
	if k >= kindCount {
		return kindTable[KindInvalidNode]
	}
	return kindTable[k]
}

func (k Kind) String() string {
	return k.Info().Name
}

// Allows reports whether attribute name belongs to the kind's schema.
func (k Kind) Allows(name string) bool {
	for _, a := range k.Info().Attrs {
		if a == name {
			return true
		}
	}
	return false
}

// IsType reports whether k is one of the type kinds.
func (k Kind) IsType() bool {
	return k.Info().Category == CatType
}
