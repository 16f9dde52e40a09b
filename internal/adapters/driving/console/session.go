// Package console provides the interactive question-answering loop.
//
// The session reads one question per line, sends it to the ask service and
// prints the answer. It stops on an exit word or end of input.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/kbrag/internal/core/ports/driving"
)

// Console texts.
const (
	bannerTitle    = "Sistema RAG con Pinecone y ChatGPT\nEspecializado en documentación técnica"
	topicsLine     = "Temas disponibles: microservicios, IA, seguridad, bases de datos,\ncloud computing, frontend, DevOps, Python, APIs, blockchain, móvil"
	promptText     = "Tu pregunta (o 'salir' para terminar): "
	goodbyeText    = "¡Hasta luego!"
	questionLabel  = "Pregunta:"
	answerLabel    = "Respuesta:"
	errorPrefix    = "Error al procesar la pregunta: "
	maxLineLength  = 1024 * 1024
	initialBufSize = 64 * 1024
)

// exitWords end the session, compared case-insensitively after trimming.
var exitWords = map[string]struct{}{
	"salir": {},
	"exit":  {},
	"quit":  {},
}

// Session is one interactive console run.
type Session struct {
	ask         driving.AskService
	in          io.Reader
	out         io.Writer
	styles      *Styles
	interactive bool
}

// Option configures a Session.
type Option func(*Session)

// WithInteractive enables the banner and input prompt.
func WithInteractive(interactive bool) Option {
	return func(s *Session) {
		s.interactive = interactive
	}
}

// WithStyles sets the styles used for output.
func WithStyles(styles *Styles) Option {
	return func(s *Session) {
		if styles != nil {
			s.styles = styles
		}
	}
}

// NewSession creates a session reading questions from in and writing to out.
func NewSession(ask driving.AskService, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		ask:    ask,
		in:     in,
		out:    out,
		styles: PlainStyles(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsExitWord reports whether the input ends the session.
func IsExitWord(input string) bool {
	_, ok := exitWords[strings.ToLower(strings.TrimSpace(input))]
	return ok
}

// Run reads questions until an exit word, end of input or cancellation.
// A failed question is reported and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	if s.interactive {
		s.printBanner()
	}

	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, initialBufSize), maxLineLength)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.interactive {
			fmt.Fprint(s.out, "\n"+s.styles.Prompt.Render(promptText))
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := scanner.Text()
		if IsExitWord(line) {
			fmt.Fprintf(s.out, "\n%s\n", goodbyeText)
			return nil
		}
		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}
		s.Ask(ctx, question)
	}
}

// Ask answers one question and prints the result.
func (s *Session) Ask(ctx context.Context, question string) {
	fmt.Fprintf(s.out, "\n%s %s\n\n", s.styles.Label.Render(questionLabel), question)
	fmt.Fprintf(s.out, "%s\n\n", s.styles.Label.Render(answerLabel))

	answer, err := s.ask.Ask(ctx, question)
	if err != nil {
		fmt.Fprintln(s.out, s.styles.Error.Render(errorPrefix+err.Error()))
		return
	}
	fmt.Fprintln(s.out, answer)
}

func (s *Session) printBanner() {
	fmt.Fprintln(s.out, s.styles.Banner.Render(bannerTitle))
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, s.styles.Muted.Render(topicsLine))
}
