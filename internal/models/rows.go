package models

// Money-flow categories used in the accumulator and the output rows.
const (
	CategoryCommitments = "commitments"
	CategorySpending    = "spending"
)

// TransactionRow is a single fanned-out split of a transaction: one row per
// (country split × sector split) combination with a non-zero rounded amount.
type TransactionRow struct {
	Month        string `csv:"Month" json:"month"`
	Org          string `csv:"Org" json:"org"`
	Sector       string `csv:"Sector" json:"sector"`
	Country      string `csv:"Recipient country" json:"country"`
	Humanitarian int    `csv:"Humanitarian?" json:"is_humanitarian"`
	Strict       int    `csv:"Strict?" json:"is_strict"`
	Category     string `csv:"Transaction type" json:"transaction_type"`
	ActivityID   string `csv:"Activity id" json:"activity_id"`
	NetMoney     int64  `csv:"Net money" json:"net_money"`
	TotalMoney   int64  `csv:"Total money" json:"total_money"`
}

// TransactionRowHeaders lists the CSV column titles in struct field order.
var TransactionRowHeaders = []string{
	"Month",
	"Org",
	"Sector",
	"Recipient country",
	"Humanitarian?",
	"Strict?",
	"Transaction type",
	"Activity id",
	"Net money",
	"Total money",
}

// TransactionRowHXLTags carries the HXL hashtags for the second CSV header
// row, in column order matching TransactionRow.
var TransactionRowHXLTags = []string{
	"#date+month",
	"#org",
	"#sector",
	"#country",
	"#indicator+bool+humanitarian",
	"#indicator+bool+strict",
	"#x_transaction_type",
	"#activity+code",
	"#value+net",
	"#value+total",
}
