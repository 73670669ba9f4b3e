package dispute

import (
	"fmt"
	"time"
)

// FormatTimeRemaining renderiza o tempo restante da janela de disputa:
// "{h}h {m}m" a partir de 1 hora, "{m}m {s}s" abaixo disso, "Expired" quando acabou.
func FormatTimeRemaining(d time.Duration) string {
	if d <= 0 {
		return "Expired"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h >= 1 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", m, s)
}

// FormatJudgeScore converte o score assinado de um juiz (basis points)
// em percentual com sinal explícito; nil vira "--".
func FormatJudgeScore(bps *int64) string {
	if bps == nil {
		return "--"
	}
	return fmt.Sprintf("%+.2f%%", float64(*bps)/100)
}
