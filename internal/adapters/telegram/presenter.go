package telegram

import (
	"fmt"
	"strings"

	"github.com/okian/aporte/internal/domain/model"
)

// Date format used for period labels in chat replies.
const replyDateFormat = "2006-01-02"

// WelcomeText renders the /start greeting.
func WelcomeText() string {
	return "👋 Hola! Soy el *bot monitor*.\n\n" +
		"📸 Envía una foto para ganar puntos.\n" +
		"🏆 Usa /ranking para ver el top actual.\n" +
		"🗓 Usa /history para ver el histórico quincenal."
}

// ContributionText renders the acknowledgement for a recorded photo.
func ContributionText(name string, width, height, awarded, total int) string {
	return fmt.Sprintf(
		"📸 Gracias %s! Se registró tu aporte.\n"+
			"Resolución: %dx%d\n"+
			"Has ganado +%d puntos.\n"+
			"Total: %d pts.",
		name, width, height, awarded, total,
	)
}

// RankingText renders the current standings, capped at topN rows.
func RankingText(rows []model.Row, topN int) string {
	if len(rows) == 0 {
		return "Aún no hay aportes registrados."
	}
	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}

	var b strings.Builder
	b.WriteString("🏆 *Top aportes valiosos (actual quincena)*\n\n")
	for i, row := range rows {
		fmt.Fprintf(&b, "%d. %s — %d pts\n", i+1, row.DisplayName, row.Points)
	}
	return b.String()
}

// HistoryText renders the closed periods, most recent first.
func HistoryText(periods []model.ArchivedPeriod) string {
	if len(periods) == 0 {
		return "No hay histórico registrado aún."
	}

	var b strings.Builder
	b.WriteString("📅 *Histórico de quincenas*\n\n")
	for _, p := range periods {
		total := 0
		for _, row := range p.Ranking {
			total += row.Points
		}
		fmt.Fprintf(&b, "🗓 %s — Total acumulado: %d pts\n", p.End.Format(replyDateFormat), total)
	}
	return b.String()
}
