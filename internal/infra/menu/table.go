package menu

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"amath-info-bot/internal/domain"
	"amath-info-bot/internal/domain/model"
	"amath-info-bot/internal/domain/ports/repository"
)

//go:embed menu.yaml
var MenuFS embed.FS

const DefaultFile = "menu.yaml"

type buttonDoc struct {
	Label string `yaml:"label"`
	Data  string `yaml:"data"`
}

type entryDoc struct {
	Text    string        `yaml:"text"`
	Buttons [][]buttonDoc `yaml:"buttons"`
}

type document struct {
	Commands  map[string]entryDoc `yaml:"commands"`
	Callbacks map[string]entryDoc `yaml:"callbacks"`
	Fallback  entryDoc            `yaml:"fallback"`
}

// Table is the static reply table. It is built once and never mutated;
// returned replies share its slices and must be treated as read-only.
type Table struct {
	commands  map[string]model.Reply
	callbacks map[string]model.Reply
	fallback  model.Reply
}

var _ repository.ReplyRepository = (*Table)(nil)

// Default loads the embedded reply table.
func Default() (*Table, error) {
	return NewTable(MenuFS, DefaultFile)
}

// NewTable reads a reply table document from any fs.FS.
func NewTable(fsys fs.FS, name string) (*Table, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read reply table %s: %w", name, err)
	}
	return newTableFromBytes(data)
}

func newTableFromBytes(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse reply table: %w", err)
	}

	t := &Table{
		commands:  make(map[string]model.Reply, len(doc.Commands)),
		callbacks: make(map[string]model.Reply, len(doc.Callbacks)),
	}
	for cmd, e := range doc.Commands {
		r, err := e.reply()
		if err != nil {
			return nil, fmt.Errorf("%w: command %q: %v", domain.ErrInvalidMenu, cmd, err)
		}
		t.commands[cmd] = r
	}
	for id, e := range doc.Callbacks {
		r, err := e.reply()
		if err != nil {
			return nil, fmt.Errorf("%w: callback %q: %v", domain.ErrInvalidMenu, id, err)
		}
		t.callbacks[id] = r
	}
	fb, err := doc.Fallback.reply()
	if err != nil {
		return nil, fmt.Errorf("%w: fallback: %v", domain.ErrInvalidMenu, err)
	}
	if !fb.IsTerminal() {
		return nil, fmt.Errorf("%w: fallback must not carry buttons", domain.ErrInvalidMenu)
	}
	t.fallback = fb

	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (e entryDoc) reply() (model.Reply, error) {
	rows := make([][]model.Button, 0, len(e.Buttons))
	for _, row := range e.Buttons {
		r := make([]model.Button, 0, len(row))
		for _, b := range row {
			r = append(r, model.Button{Label: b.Label, Data: b.Data})
		}
		rows = append(rows, r)
	}
	return model.NewReply(e.Text, rows)
}

// validate checks that at least one command exists and that every button
// points at a callback entry.
func (t *Table) validate() error {
	if len(t.commands) == 0 {
		return fmt.Errorf("%w: no commands defined", domain.ErrInvalidMenu)
	}
	var dangling []string
	check := func(r model.Reply) {
		for _, id := range r.CallbackIDs() {
			if _, ok := t.callbacks[id]; !ok {
				dangling = append(dangling, id)
			}
		}
	}
	for _, r := range t.commands {
		check(r)
	}
	for _, r := range t.callbacks {
		check(r)
	}
	if len(dangling) > 0 {
		sort.Strings(dangling)
		return fmt.Errorf("%w: buttons without callback entries: %s", domain.ErrInvalidMenu, strings.Join(dangling, ", "))
	}
	return nil
}

func (t *Table) Command(text string) (model.Reply, bool) {
	r, ok := t.commands[text]
	return r, ok
}

func (t *Table) Callback(id string) (model.Reply, bool) {
	r, ok := t.callbacks[id]
	return r, ok
}

func (t *Table) Fallback() model.Reply { return t.fallback }

// Commands lists the recognized command texts, sorted.
func (t *Table) Commands() []string {
	out := make([]string, 0, len(t.commands))
	for c := range t.commands {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
