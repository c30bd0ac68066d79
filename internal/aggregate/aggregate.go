// Package aggregate drives the transaction aggregation: it deduplicates
// activities, filters transactions by date, applies net-money factors and
// country/sector splits, fans each transaction out into weighted rows, and
// accumulates running totals under unique keys.
package aggregate

import (
	"math"
	"sort"

	"c19money/internal/classify"
	"c19money/internal/currencyutils"
	"c19money/internal/dateutils"
	"c19money/internal/models"
	"c19money/internal/netmoney"
	"c19money/internal/refdata"
	"c19money/internal/splits"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Key identifies one accumulator entry. Country and sector hold raw codes;
// they are resolved to display names only when rows are emitted.
type Key struct {
	Month        string
	Org          string
	Country      string
	Sector       string
	Humanitarian bool
	Strict       bool
}

// Flows holds running totals by money-flow category.
type Flows struct {
	Commitments int64 `json:"commitments"`
	Spending    int64 `json:"spending"`
}

func (f *Flows) add(category string, amount int64) {
	switch category {
	case models.CategoryCommitments:
		f.Commitments += amount
	case models.CategorySpending:
		f.Spending += amount
	}
}

// Totals carries the two running totals for a key: net (new-money-adjusted)
// and total (raw USD).
type Totals struct {
	Net   Flows `json:"net"`
	Total Flows `json:"total"`
}

// Row is one emitted accumulator entry with codes resolved to display names.
type Row struct {
	Month        string `json:"month"`
	Org          string `json:"org"`
	OrgType      string `json:"org_type,omitempty"`
	Country      string `json:"country"`
	Sector       string `json:"sector"`
	Humanitarian bool   `json:"is_humanitarian"`
	Strict       bool   `json:"is_strict"`
	Net          Flows  `json:"net"`
	Total        Flows  `json:"total"`
}

// CountRow reports how many distinct activities contributed to one slice of
// the data, independent of how many transactions they carried.
type CountRow struct {
	Dimension    string `json:"dimension"`
	Name         string `json:"name"`
	Humanitarian bool   `json:"is_humanitarian"`
	Strict       bool   `json:"is_strict"`
	Activities   int    `json:"activities"`
}

type countKey struct {
	dimension    string
	name         string
	humanitarian bool
	strict       bool
}

// Aggregator owns all mutable state of a single aggregation run. It is not
// safe for concurrent use and is not meant to be: input is a bounded batch
// processed in a single pass.
type Aggregator struct {
	resolver  *refdata.Resolver
	converter *currencyutils.Converter

	earliestMonth string
	latestMonth   string

	seen     map[string]struct{}
	table    map[Key]*Totals
	rows     []models.TransactionRow
	orgTypes map[string]string
	counts   map[countKey]map[string]struct{}
}

// New creates an aggregator with the default date window: 2020-01 through
// the current UTC month inclusive. Transactions dated after the current month
// are excluded because that data is not yet real.
func New(resolver *refdata.Resolver, converter *currencyutils.Converter) *Aggregator {
	return &Aggregator{
		resolver:      resolver,
		converter:     converter,
		earliestMonth: dateutils.EarliestMonth,
		latestMonth:   dateutils.CurrentMonth(),
		seen:          make(map[string]struct{}),
		table:         make(map[Key]*Totals),
		orgTypes:      make(map[string]string),
		counts:        make(map[countKey]map[string]struct{}),
	}
}

// SetWindow overrides the inclusive year-month window.
func (a *Aggregator) SetWindow(earliest, latest string) {
	a.earliestMonth = earliest
	a.latestMonth = latest
}

// Process aggregates a batch of activities in input order.
func (a *Aggregator) Process(activities []models.Activity) {
	for i := range activities {
		a.ProcessActivity(&activities[i])
	}
}

// ProcessActivity aggregates a single activity. Activities already seen under
// the same identifier, and activities from secondary reporters, are skipped.
func (a *Aggregator) ProcessActivity(activity *models.Activity) {
	if _, ok := a.seen[activity.Identifier]; ok {
		log.WithField("activity", activity.Identifier).Debug("Skipping duplicate activity")
		return
	}
	a.seen[activity.Identifier] = struct{}{}

	if activity.SecondaryReporter {
		log.WithField("activity", activity.Identifier).Debug("Skipping secondary reporter")
		return
	}

	org := a.resolver.OrgName(&activity.ReportingOrg)
	if _, ok := a.orgTypes[org]; !ok {
		a.orgTypes[org] = a.resolver.OrgType(&activity.ReportingOrg)
	}
	activityStrict := classify.IsActivityStrict(activity)

	// Default splits at the activity level; transactions without their own
	// breakdown inherit these.
	activityCountrySplits := splits.Countries(activity.RecipientCountries, nil)
	activitySectorSplits := splits.Sectors(activity.Sectors, nil)

	factors := netmoney.Compute(activity, a.converter)

	for i := range activity.Transactions {
		a.processTransaction(activity, &activity.Transactions[i], org, activityStrict,
			activityCountrySplits, activitySectorSplits, factors)
	}
}

func (a *Aggregator) processTransaction(activity *models.Activity, transaction *models.Transaction,
	org string, activityStrict bool, countryDefaults, sectorDefaults map[string]float64,
	factors netmoney.Factors) {

	if !transaction.HasValue() {
		return
	}
	month := dateutils.YearMonth(transaction.Date)
	if !dateutils.MonthInRange(month, a.earliestMonth, a.latestMonth) {
		return
	}

	value := a.converter.ToUSD(transaction.Value.Decimal, transaction.Currency, transaction.Date)

	var category string
	var netValue float64
	switch {
	case transaction.Type == models.TypeOutgoingCommitment:
		category = models.CategoryCommitments
		netValue = float64(value) * factors.Commitment
	case transaction.IsSpending():
		category = models.CategorySpending
		netValue = float64(value) * factors.Spending
	default:
		// Incoming money and anything exotic stays out of the totals.
		return
	}

	isHumanitarian := classify.EffectiveHumanitarian(activity, transaction)
	isStrict := classify.EffectiveStrict(activityStrict, transaction)

	countrySplits := splits.Countries(transaction.RecipientCountries, countryDefaults)
	sectorSplits := splits.Sectors(transaction.Sectors, sectorDefaults)

	for country, countryWeight := range countrySplits {
		for sector, sectorWeight := range sectorSplits {
			netMoney := int64(math.Round(netValue * countryWeight * sectorWeight))
			totalMoney := int64(math.Round(float64(value) * countryWeight * sectorWeight))
			if netMoney == 0 && totalMoney == 0 {
				continue
			}

			key := Key{
				Month:        month,
				Org:          org,
				Country:      country,
				Sector:       sector,
				Humanitarian: isHumanitarian,
				Strict:       isStrict,
			}
			totals, ok := a.table[key]
			if !ok {
				totals = &Totals{}
				a.table[key] = totals
			}
			totals.Net.add(category, netMoney)
			totals.Total.add(category, totalMoney)

			a.rows = append(a.rows, models.TransactionRow{
				Month:        month,
				Org:          org,
				Sector:       a.resolver.SectorGroupName(sector),
				Country:      a.resolver.CountryName(country),
				Humanitarian: boolFlag(isHumanitarian),
				Strict:       boolFlag(isStrict),
				Category:     category,
				ActivityID:   activity.Identifier,
				NetMoney:     netMoney,
				TotalMoney:   totalMoney,
			})

			a.countActivity("org", org, isHumanitarian, isStrict, activity.Identifier)
			a.countActivity("sector", sector, isHumanitarian, isStrict, activity.Identifier)
			a.countActivity("country", country, isHumanitarian, isStrict, activity.Identifier)
		}
	}
}

func (a *Aggregator) countActivity(dimension, name string, humanitarian, strict bool, identifier string) {
	key := countKey{dimension: dimension, name: name, humanitarian: humanitarian, strict: strict}
	set, ok := a.counts[key]
	if !ok {
		set = make(map[string]struct{})
		a.counts[key] = set
	}
	set[identifier] = struct{}{}
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ActivitiesSeen returns the number of distinct activity identifiers
// encountered, including skipped secondary reporters.
func (a *Aggregator) ActivitiesSeen() int {
	return len(a.seen)
}

// Rows emits the accumulator table as rows sorted by key, with country and
// sector codes resolved to display names.
func (a *Aggregator) Rows() []Row {
	keys := make([]Key, 0, len(a.table))
	for key := range a.table {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })

	rows := make([]Row, 0, len(keys))
	for _, key := range keys {
		totals := a.table[key]
		rows = append(rows, Row{
			Month:        key.Month,
			Org:          key.Org,
			OrgType:      a.orgTypes[key.Org],
			Country:      a.resolver.CountryName(key.Country),
			Sector:       a.resolver.SectorGroupName(key.Sector),
			Humanitarian: key.Humanitarian,
			Strict:       key.Strict,
			Net:          totals.Net,
			Total:        totals.Total,
		})
	}
	return rows
}

// TransactionRows emits the flat fanned-out rows in deterministic order.
func (a *Aggregator) TransactionRows() []models.TransactionRow {
	rows := make([]models.TransactionRow, len(a.rows))
	copy(rows, a.rows)
	sort.Slice(rows, func(i, j int) bool { return rowLess(rows[i], rows[j]) })
	return rows
}

// ActivityCounts emits the distinct-activity side tables, sorted.
func (a *Aggregator) ActivityCounts() []CountRow {
	rows := make([]CountRow, 0, len(a.counts))
	for key, set := range a.counts {
		rows = append(rows, CountRow{
			Dimension:    key.dimension,
			Name:         key.name,
			Humanitarian: key.humanitarian,
			Strict:       key.strict,
			Activities:   len(set),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		ri, rj := rows[i], rows[j]
		if ri.Dimension != rj.Dimension {
			return ri.Dimension < rj.Dimension
		}
		if ri.Name != rj.Name {
			return ri.Name < rj.Name
		}
		if ri.Humanitarian != rj.Humanitarian {
			return !ri.Humanitarian
		}
		return !ri.Strict && rj.Strict
	})
	return rows
}

func keyLess(a, b Key) bool {
	if a.Month != b.Month {
		return a.Month < b.Month
	}
	if a.Org != b.Org {
		return a.Org < b.Org
	}
	if a.Country != b.Country {
		return a.Country < b.Country
	}
	if a.Sector != b.Sector {
		return a.Sector < b.Sector
	}
	if a.Humanitarian != b.Humanitarian {
		return !a.Humanitarian
	}
	return !a.Strict && b.Strict
}

func rowLess(a, b models.TransactionRow) bool {
	if a.Month != b.Month {
		return a.Month < b.Month
	}
	if a.Org != b.Org {
		return a.Org < b.Org
	}
	if a.Sector != b.Sector {
		return a.Sector < b.Sector
	}
	if a.Country != b.Country {
		return a.Country < b.Country
	}
	if a.Humanitarian != b.Humanitarian {
		return a.Humanitarian < b.Humanitarian
	}
	if a.Strict != b.Strict {
		return a.Strict < b.Strict
	}
	if a.Category != b.Category {
		return a.Category < b.Category
	}
	if a.ActivityID != b.ActivityID {
		return a.ActivityID < b.ActivityID
	}
	if a.NetMoney != b.NetMoney {
		return a.NetMoney < b.NetMoney
	}
	return a.TotalMoney < b.TotalMoney
}
