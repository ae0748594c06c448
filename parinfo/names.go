package parinfo

// Parameter names understood by the data-access layer.
const (
	DAOType              = "DAOType"
	Username             = "Username"
	Password             = "Password"
	Instance             = "Instance"
	Driver               = "Driver"
	IndexTablespace      = "IndexTablespace"
	TableTablespace      = "TableTablespace"
	DateFormat           = "DateFormat"
	FlatFilePath         = "FlatFilePath"
	XMLInputFile         = "XMLInputFile"
	XMLOutputFile        = "XMLOutputFile"
	Tables               = "Tables"
	UseTableTypes        = "UseTableTypes"
	Relationships        = "Relationships"
	FixForeignKeys       = "FixForeignKeys"
	TableDefinitionTable = "TableDefinitionTable"
	AlternateConfigFile  = "AlternateConfigFile"
)

// DAO type values stored under DAOType.
const (
	DAOTypeDB  = "DB"
	DAOTypeFF  = "FF"
	DAOTypeXML = "XML"
)
