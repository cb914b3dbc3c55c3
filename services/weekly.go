package services

import (
	"sort"
	"time"

	"github.com/csas-cheick/collections-backend/models"
)

// WeekTotals is the rollup for a single week bucket
type WeekTotals struct {
	TotalEntrees       float64 `json:"total_entrees"`
	TotalSorties       float64 `json:"total_sorties"`
	SoldeNet           float64 `json:"solde_net"`
	NombreTransactions int     `json:"nombre_transactions"`
	NombreEntrees      int     `json:"nombre_entrees"`
	NombreSorties      int     `json:"nombre_sorties"`
}

// WeekGroup is one ISO-8601 week of transactions
type WeekGroup struct {
	Annee         int                  `json:"annee"`
	NumeroSemaine int                  `json:"numero_semaine"`
	DebutSemaine  time.Time            `json:"debut_semaine"`
	FinSemaine    time.Time            `json:"fin_semaine"`
	Transactions  []models.Transaction `json:"transactions"`
	Totaux        WeekTotals           `json:"totaux"`
}

// OverallTotals is the rollup across the whole requested period
type OverallTotals struct {
	TotalEntrees       float64   `json:"total_entrees"`
	TotalSorties       float64   `json:"total_sorties"`
	SoldeNet           float64   `json:"solde_net"`
	NombreTransactions int       `json:"nombre_transactions"`
	NombreSemaines     int       `json:"nombre_semaines"`
	PeriodeDebut       time.Time `json:"periode_debut"`
	PeriodeFin         time.Time `json:"periode_fin"`
}

// WeeklyReport is the full weekly grouping response
type WeeklyReport struct {
	Semaines []WeekGroup   `json:"semaines"`
	Totaux   OverallTotals `json:"totaux_generaux"`
}

// WeekOf returns the ISO-8601 week a date belongs to: the week year, the
// week number (Monday-start, first-four-day rule) and the Monday of that
// week at midnight
func WeekOf(date time.Time) (year, week int, start time.Time) {
	year, week = date.ISOWeek()
	// Monday is day 0 in this offset; time.Weekday has Sunday == 0
	offset := (int(date.Weekday()) + 6) % 7
	day := date.AddDate(0, 0, -offset)
	start = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, date.Location())
	return year, week, start
}

// GroupTransactionsByWeek partitions transactions into ISO-8601 week
// buckets and computes per-week and overall rollups. Transactions must
// already be sorted by DateTransaction ascending and fall inside
// [periodStart, periodEnd]; their input order is preserved inside each
// bucket. Buckets come out sorted by (week year, week number).
func GroupTransactionsByWeek(transactions []models.Transaction, periodStart, periodEnd time.Time) WeeklyReport {
	type weekKey struct {
		year int
		week int
	}

	buckets := make(map[weekKey]*WeekGroup)
	overall := OverallTotals{
		PeriodeDebut: periodStart,
		PeriodeFin:   periodEnd,
	}

	for _, tx := range transactions {
		year, week, start := WeekOf(tx.DateTransaction)
		key := weekKey{year: year, week: week}

		group, ok := buckets[key]
		if !ok {
			group = &WeekGroup{
				Annee:         year,
				NumeroSemaine: week,
				DebutSemaine:  start,
				FinSemaine:    start.AddDate(0, 0, 6),
			}
			buckets[key] = group
		}

		group.Transactions = append(group.Transactions, tx)
		group.Totaux.NombreTransactions++
		group.Totaux.SoldeNet += tx.SignedAmount()
		if tx.Type == models.TransactionTypeEntree {
			group.Totaux.TotalEntrees += tx.Montant
			group.Totaux.NombreEntrees++
		} else {
			group.Totaux.TotalSorties += tx.Montant
			group.Totaux.NombreSorties++
		}

		overall.NombreTransactions++
		overall.SoldeNet += tx.SignedAmount()
		if tx.Type == models.TransactionTypeEntree {
			overall.TotalEntrees += tx.Montant
		} else {
			overall.TotalSorties += tx.Montant
		}
	}

	semaines := make([]WeekGroup, 0, len(buckets))
	for _, group := range buckets {
		semaines = append(semaines, *group)
	}
	sort.Slice(semaines, func(i, j int) bool {
		if semaines[i].Annee != semaines[j].Annee {
			return semaines[i].Annee < semaines[j].Annee
		}
		return semaines[i].NumeroSemaine < semaines[j].NumeroSemaine
	})

	overall.NombreSemaines = len(semaines)

	return WeeklyReport{
		Semaines: semaines,
		Totaux:   overall,
	}
}

// ResolveWeeklyPeriod applies the default reporting window: when a bound
// is missing, the period covers the last 30 days up to the end of today.
func ResolveWeeklyPeriod(start, end *time.Time, now time.Time) (time.Time, time.Time) {
	resolvedEnd := now
	if end != nil {
		resolvedEnd = *end
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		resolvedEnd = today.AddDate(0, 0, 1).Add(-time.Second)
	}

	resolvedStart := resolvedEnd
	if start != nil {
		resolvedStart = *start
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		resolvedStart = today.AddDate(0, 0, -30)
	}

	return resolvedStart, resolvedEnd
}
