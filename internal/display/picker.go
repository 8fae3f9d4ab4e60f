package display

import (
	"time"

	"github.com/hammamikhairi/countdown/internal/domain"
)

const (
	fieldHour = iota
	fieldMinute
	fieldSecond
	fieldCount
)

var fieldLabels = [fieldCount]string{"Hours", "Minutes", "Seconds"}

// picker holds the hour/minute/second selection shown while idle.
// Each field wraps around like a spinning number wheel.
type picker struct {
	values   [fieldCount]int
	focus    int
	maxHours int
}

func newPicker(s domain.Snapshot, maxHours int) picker {
	return picker{values: [fieldCount]int{s.Hour, s.Minute, s.Second}, focus: fieldMinute, maxHours: maxHours}
}

func (p picker) max(field int) int {
	if field == fieldHour {
		return p.maxHours
	}
	return 59
}

func (p *picker) increment() {
	v := p.values[p.focus] + 1
	if v > p.max(p.focus) {
		v = 0
	}
	p.values[p.focus] = v
}

func (p *picker) decrement() {
	v := p.values[p.focus] - 1
	if v < 0 {
		v = p.max(p.focus)
	}
	p.values[p.focus] = v
}

func (p *picker) next() { p.focus = (p.focus + 1) % fieldCount }
func (p *picker) prev() { p.focus = (p.focus + fieldCount - 1) % fieldCount }

func (p *picker) clear() { p.values = [fieldCount]int{} }

func (p picker) total() time.Duration {
	return domain.SelectedDuration(p.values[fieldHour], p.values[fieldMinute], p.values[fieldSecond])
}
