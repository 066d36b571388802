package ir

var opNames = map[Op]string{
	OpBoolConst: "BoolConst", OpCharConst: "CharConst", OpStrConst: "StrConst",
	OpIntConst: "IntConst", OpFloatConst: "FloatConst", OpNullConst: "Null",
	OpIdentifier: "Identifier", OpParam: "Param", OpLet: "Let",
	OpFunction: "Function", OpSeq: "Seq",
	OpNumConv: "NumConv", OpNumParse: "NumParse", OpNumToStr: "NumToStr",
	OpCastRepr: "CastRepr", OpNot: "Not", OpBitNot: "BitNot", OpIsNull: "IsNull",
	OpToNullable: "ToNullable", OpToNotNullable: "ToNotNullable",
	OpFst: "Fst", OpSnd: "Snd", OpStrLen: "StrLen", OpListLen: "ListLen",
	OpRemSize: "RemSize", OpReadByte: "ReadByte", OpDataPtrPush: "DataPtrPush",
	OpDataPtrPop: "DataPtrPop", OpDerefValuePtr: "DerefValuePtr", OpDump: "Dump",
	OpIgnore: "Ignore",
	OpTupItem: "TupItem", OpRecField: "RecField", OpVecElem: "VecElem",
	OpGt:     "Gt", OpGe: "Ge", OpEq: "Eq", OpNe: "Ne", OpAdd: "Add", OpSub: "Sub",
	OpMul: "Mul", OpDiv: "Div", OpRem: "Rem", OpLogAnd: "LogAnd", OpLogOr: "LogOr",
	OpLogXor: "LogXor", OpLShift: "LShift", OpRShift: "RShift", OpAnd: "And", OpOr: "Or",
	OpAppendBytes: "AppendBytes", OpAppendString: "AppendString", OpTestBit: "TestBit",
	OpReadBytes: "ReadBytes", OpPeekByte: "PeekByte", OpWriteByte: "WriteByte",
	OpWriteBytes: "WriteBytes", OpPokeByte: "PokeByte", OpDataPtrAdd: "DataPtrAdd",
	OpDataPtrSub: "DataPtrSub", OpCoalesce: "Coalesce", OpPair: "Pair", OpMapPair: "MapPair",
	OpSetBit: "SetBit", OpBlitByte: "BlitByte", OpChoose: "Choose",
	OpLoopWhile: "LoopWhile", OpLoopUntil: "LoopUntil",
	OpReadWhile: "ReadWhile", OpRepeat: "Repeat",
	OpReadWordE: "ReadWord", OpWriteWordE: "WriteWord", OpPeekWordE: "PeekWord",
}

func (op Op) String() string {
	if n, ok := opNames[op]; ok {
		return n
	}
	return "?op?"
}
