// Package progress вычисляет производные показатели спринта: суммарные
// и взвешенно-завершенные поинты и burndown-серию. Пакет чистый —
// работает только с уже загруженными задачами.
package progress

import (
	"math"
	"time"

	"github.com/akulinav/sprint-tracker/internal/models"
)

// Веса завершенности по статусу задачи
var statusWeights = map[models.IssueStatus]float64{
	models.StatusTodo:       0.0,
	models.StatusInProgress: 0.5,
	models.StatusInReview:   0.75,
	models.StatusDone:       1.0,
	models.StatusBlocked:    0.0,
	models.StatusCancelled:  0.0,
}

// Weight возвращает вес завершенности статуса; неизвестные статусы весят 0
func Weight(s models.IssueStatus) float64 {
	return statusWeights[s]
}

// Totals — агрегаты спринта: сумма оценок и взвешенная завершенность
type Totals struct {
	TotalPoints     float64
	CompletedPoints float64
}

// Compute считает агрегаты по составу спринта. CompletedPoints округляется
// до одного знака и по построению не превышает TotalPoints.
func Compute(issues []models.Issue) Totals {
	var t Totals
	for _, is := range issues {
		t.TotalPoints += is.Points
		t.CompletedPoints += is.Points * Weight(is.Status)
	}
	t.CompletedPoints = Round1(t.CompletedPoints)
	return t
}

// Round1 округляет до одного десятичного знака
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// BuildBurndown строит посуточную серию идеального и фактического остатка
// поинтов для диапазона [start, end] включительно. Фактический остаток
// заполняется только для дней, не позже сегодняшнего; дата последнего
// изменения DONE-задачи служит приближением даты завершения.
func BuildBurndown(start, end time.Time, issues []models.Issue, now time.Time) []models.BurndownPoint {
	total := Compute(issues).TotalPoints

	totalDays := int(math.Ceil(end.Sub(start).Hours() / 24))
	if totalDays < 0 {
		totalDays = 0
	}

	pointsPerDay := 0.0
	if totalDays > 0 {
		pointsPerDay = total / float64(totalDays)
	}

	today := truncateDay(now)
	firstDay := truncateDay(start)

	series := make([]models.BurndownPoint, 0, totalDays+1)
	for d := 0; d <= totalDays; d++ {
		day := firstDay.AddDate(0, 0, d)

		point := models.BurndownPoint{
			Date:  day.Format("2006-01-02"),
			Ideal: Round1(math.Max(0, total-pointsPerDay*float64(d))),
		}

		if !day.After(today) {
			remaining := Round1(total - doneBy(issues, day))
			point.Actual = &remaining
		}

		series = append(series, point)
	}

	return series
}

// doneBy суммирует поинты DONE-задач, последнее изменение которых
// (с точностью до календарного дня) не позже day
func doneBy(issues []models.Issue, day time.Time) float64 {
	var sum float64
	for _, is := range issues {
		if is.Status != models.StatusDone {
			continue
		}
		if !truncateDay(is.UpdatedAt).After(day) {
			sum += is.Points
		}
	}
	return sum
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
