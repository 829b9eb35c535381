package workflow

import "fmt"

// Severity classifies a status message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Message is the transient user-facing status line. The zero value means no
// message.
type Message struct {
	Text     string
	Severity Severity
}

// Empty reports whether there is nothing to show.
func (m Message) Empty() bool {
	return m.Text == ""
}

const (
	msgTooManyFiles  = "Máximo de 8 arquivos permitidos"
	msgNoFiles       = "Selecione pelo menos um arquivo PDF"
	msgProcessFailed = "Erro ao processar arquivos"
)

func infoMessage(text string) Message    { return Message{Text: text, Severity: SeverityInfo} }
func successMessage(text string) Message { return Message{Text: text, Severity: SeveritySuccess} }
func errorMessage(text string) Message   { return Message{Text: text, Severity: SeverityError} }

func processedMessage(n int) Message {
	return successMessage(fmt.Sprintf("Processamento concluído! %d arquivo(s) processado(s).", n))
}

func savedMessage(path string) Message {
	return successMessage(fmt.Sprintf("Download concluído! Planilha salva em %s", path))
}

func saveFailedMessage(err error) Message {
	return errorMessage(fmt.Sprintf("Erro ao salvar planilha: %v", err))
}
