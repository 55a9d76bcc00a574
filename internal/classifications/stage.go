package classifications

// Stage is a pressure injury staging value. The set is closed; anything else
// is rejected at write time.
type Stage string

const (
	Stage1          Stage = "stage1"
	Stage2          Stage = "stage2"
	Stage3          Stage = "stage3"
	Stage4          Stage = "stage4"
	NotClassifiable Stage = "not_classifiable"
	DTPI            Stage = "dtpi"
)

// Stages returns every valid stage value in canonical order.
func Stages() []Stage {
	return []Stage{Stage1, Stage2, Stage3, Stage4, NotClassifiable, DTPI}
}

// ParseStage validates a raw stage string.
func ParseStage(raw string) (Stage, bool) {
	s := Stage(raw)
	switch s {
	case Stage1, Stage2, Stage3, Stage4, NotClassifiable, DTPI:
		return s, true
	}
	return "", false
}
