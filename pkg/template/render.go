package template

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/arthur-debert/xavr/pkg/errors"
	"github.com/arthur-debert/xavr/pkg/filesystem"
	"github.com/arthur-debert/xavr/pkg/logging"
)

var (
	iterBegin = regexp.MustCompile(`^\s*@iter\s+(.+?)@`)
	iterEnd   = regexp.MustCompile(`^\s*@end@`)
)

// defaultName labels errors from templates that did not come from a file
const defaultName = "<template>"

type line struct {
	text string
	eol  string
	no   int
}

type block struct {
	list  string
	items []Scope
	start int
	body  []line
}

type renderer struct {
	name  string
	model Model
	out   *bufio.Writer
	open  *block

	lines      int
	iterations int
}

// Render renders the template read from r into w
func Render(r io.Reader, w io.Writer, model Model) error {
	return render(defaultName, r, w, model)
}

// RenderBytes renders src in memory. name labels errors.
func RenderBytes(name string, src []byte, model Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(name, bytes.NewReader(src), &buf, model); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadTemplate reads the template at src. A missing file is FILE_NOT_FOUND,
// any other read failure FILE_ACCESS.
func ReadTemplate(fsys filesystem.FS, src string) ([]byte, error) {
	data, err := fsys.ReadFile(src)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "template %s not found", src).
				WithDetail("path", src)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read template %s", src).
			WithDetail("path", src)
	}
	return data, nil
}

// RenderFile renders the template at src and writes the result to dst,
// replacing any existing content. dst is left untouched when rendering fails.
func RenderFile(fsys filesystem.FS, src, dst string, model Model) error {
	data, err := ReadTemplate(fsys, src)
	if err != nil {
		return err
	}

	out, err := RenderBytes(src, data, model)
	if err != nil {
		return err
	}

	if err := fsys.WriteFile(dst, out, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", dst).
			WithDetail("path", dst)
	}

	logger := logging.GetLogger("template")
	logger.Info().
		Str("template", src).
		Str("output", dst).
		Int("bytes", len(out)).
		Msg("Rendered template")
	return nil
}

func render(name string, r io.Reader, w io.Writer, model Model) error {
	rr := &renderer{
		name:  name,
		model: model,
		out:   bufio.NewWriter(w),
	}

	br := bufio.NewReader(r)
	no := 0
	for {
		raw, err := br.ReadString('\n')
		if raw != "" {
			no++
			if lerr := rr.process(splitLine(raw, no)); lerr != nil {
				return lerr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to read template %s", name)
		}
	}

	if rr.open != nil {
		return rr.fail(errors.Newf(errors.ErrTemplateSyntax,
			"iteration block over %q is never closed with @end@", rr.open.list), rr.open.start)
	}

	if err := rr.out.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write rendered template")
	}

	logger := logging.GetLogger("template")
	logger.Debug().
		Str("template", name).
		Int("lines", rr.lines).
		Int("iterations", rr.iterations).
		Msg("Template rendered")
	return nil
}

func splitLine(raw string, no int) line {
	switch {
	case strings.HasSuffix(raw, "\r\n"):
		return line{text: raw[:len(raw)-2], eol: "\r\n", no: no}
	case strings.HasSuffix(raw, "\n"):
		return line{text: raw[:len(raw)-1], eol: "\n", no: no}
	default:
		return line{text: raw, no: no}
	}
}

func (r *renderer) process(l line) error {
	if r.open != nil {
		switch {
		case iterEnd.MatchString(l.text):
			return r.closeBlock()
		case iterBegin.MatchString(l.text):
			return r.fail(errors.New(errors.ErrTemplateSyntax,
				"nested iteration blocks are not supported"), l.no)
		default:
			r.open.body = append(r.open.body, l)
			return nil
		}
	}

	if m := iterBegin.FindStringSubmatch(l.text); m != nil {
		list := strings.TrimSpace(m[1])
		items, ok := r.model.Lists[list]
		if !ok {
			return r.fail(errors.Newf(errors.ErrTemplateIterKey,
				"unknown iteration list %q", list).
				WithDetail("key", list).
				WithDetail("available", r.model.ListNames()), l.no)
		}
		r.open = &block{list: list, items: items, start: l.no}
		return nil
	}

	if iterEnd.MatchString(l.text) {
		return r.fail(errors.New(errors.ErrTemplateSyntax,
			"@end@ without a matching @iter@"), l.no)
	}

	return r.emit(l, r.model.Values)
}

func (r *renderer) closeBlock() error {
	b := r.open
	r.open = nil
	for _, item := range b.items {
		for _, l := range b.body {
			if err := r.emit(l, item); err != nil {
				return err
			}
		}
	}
	r.iterations += len(b.items)
	return nil
}

func (r *renderer) emit(l line, scope Scope) error {
	text, err := expand(l.text, scope)
	if err != nil {
		return r.fail(err, l.no)
	}
	r.lines++
	_, _ = r.out.WriteString(text)
	_, _ = r.out.WriteString(l.eol)
	return nil
}

// fail locates err at line no of the template
func (r *renderer) fail(err error, no int) error {
	code := errors.GetErrorCode(err)
	msg := err.Error()
	var xerr *errors.XavrError
	if stderrors.As(err, &xerr) {
		msg = xerr.Message
	}
	located := errors.New(code, fmt.Sprintf("%s:%d: %s", r.name, no, msg))
	for k, v := range errors.GetErrorDetails(err) {
		located.WithDetail(k, v)
	}
	return located.WithDetail("file", r.name).WithDetail("line", no)
}
