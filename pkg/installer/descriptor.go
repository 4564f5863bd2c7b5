package installer

import (
	"github.com/arthur-debert/xavr/pkg/errors"
	"github.com/beevik/etree"
)

// CheckDescriptor verifies the rendered descriptor is well-formed XML and
// returns the number of <string> elements it holds
func CheckDescriptor(data []byte) (int, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return 0, errors.Wrap(err, errors.ErrTemplateInvalid, "descriptor is not well-formed XML")
	}
	if doc.Root() == nil {
		return 0, errors.New(errors.ErrTemplateInvalid, "descriptor has no root element")
	}
	return len(doc.FindElements("//string")), nil
}
