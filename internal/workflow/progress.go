package workflow

// TotalSteps is the number of progress stages.
const TotalSteps = 3

// StageStatus is the display state of a progress stage.
type StageStatus int

const (
	StageWaiting StageStatus = iota
	StageActive
	StageCompleted
)

// Label returns the user-facing status text.
func (s StageStatus) Label() string {
	switch s {
	case StageActive:
		return "Em andamento"
	case StageCompleted:
		return "Concluído"
	default:
		return "Aguardando"
	}
}

// Stage describes one progress card.
type Stage struct {
	ID          string
	Title       string
	Subtitle    string
	Description string
	Status      StageStatus
}

// Stages computes the three stage cards for currentStep (1..3).
func Stages(currentStep int, isCompleted bool) [TotalSteps]Stage {
	upload := StageWaiting
	switch {
	case currentStep >= 2 || isCompleted:
		upload = StageCompleted
	case currentStep == 1:
		upload = StageActive
	}

	processing := StageWaiting
	switch {
	case currentStep == 2:
		processing = StageActive
	case currentStep >= 3 || isCompleted:
		processing = StageCompleted
	}

	download := StageWaiting
	switch {
	case isCompleted:
		download = StageCompleted
	case currentStep == 3:
		download = StageActive
	}

	return [TotalSteps]Stage{
		{ID: "upload", Title: "Upload", Subtitle: "Envio de arquivos", Description: "Selecione até 8 PDFs", Status: upload},
		{ID: "processing", Title: "Processamento", Subtitle: "Geração de dados", Description: "Criando planilha e relatórios", Status: processing},
		{ID: "download", Title: "Download", Subtitle: "Resultados", Description: "Baixe seus arquivos", Status: download},
	}
}

// ProgressFraction is the filled share of the progress bar.
func ProgressFraction(currentStep int) float64 {
	if currentStep < 0 {
		return 0
	}
	if currentStep > TotalSteps {
		return 1
	}
	return float64(currentStep) / float64(TotalSteps)
}
