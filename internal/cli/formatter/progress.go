package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/routine/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderStepProgress renders one block per step, e.g. [███░░░░░░░] 3/10.
func RenderStepProgress(done domain.Step) string {
	n := min(max(int(done), 0), domain.StepCount)
	bar := strings.Repeat(filledBlock, n) + strings.Repeat(emptyBlock, domain.StepCount-n)

	style := StyleYellow
	if n == domain.StepCount {
		style = StyleGreen
	} else if n == 0 {
		style = StyleDim
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), n, domain.StepCount)
}
