// Package refdata loads the outlet's reference data (catalog, tax schedule,
// rosters and settings) from a YAML file.
package refdata

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"pos/internal/core/domain/model/billing"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/ports"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type tableDoc struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
}

type personDoc struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type customerDoc struct {
	ID   string          `yaml:"id"`
	Name string          `yaml:"name"`
	Due  decimal.Decimal `yaml:"due"`
}

type document struct {
	Outlet           string              `yaml:"outlet"`
	Sound            bool                `yaml:"sound"`
	PaymentMethods   []string            `yaml:"payment_methods"`
	Taxes            billing.TaxSchedule `yaml:"taxes"`
	Menu             []menu.Entry        `yaml:"menu"`
	Tables           []tableDoc          `yaml:"tables"`
	Waiters          []personDoc         `yaml:"waiters"`
	Customers        []customerDoc       `yaml:"customers"`
	DeliveryPartners []personDoc         `yaml:"delivery_partners"`
}

// Directory is an immutable in-memory ports.Directory.
type Directory struct {
	outlet   string
	sound    bool
	methods  []string
	taxes    billing.TaxSchedule
	menu     []menu.Entry
	entries  map[string]menu.Entry
	tables   map[string]ports.Table
	waiters  map[string]ports.Person
	partners map[string]ports.Person
	clients  map[string]ports.Customer
}

var _ ports.Directory = (*Directory)(nil)

// Load reads and validates a reference data file.
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference data: %w", err)
	}
	return Parse(data)
}

// Parse decodes reference data. Unknown fields are rejected.
func Parse(data []byte) (*Directory, error) {
	var doc document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse reference data: %w", err)
	}
	if err := doc.Taxes.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reference data: %w", err)
	}

	d := &Directory{
		outlet:   doc.Outlet,
		sound:    doc.Sound,
		methods:  doc.PaymentMethods,
		taxes:    doc.Taxes,
		menu:     doc.Menu,
		entries:  make(map[string]menu.Entry, len(doc.Menu)),
		tables:   make(map[string]ports.Table, len(doc.Tables)),
		waiters:  make(map[string]ports.Person, len(doc.Waiters)),
		partners: make(map[string]ports.Person, len(doc.DeliveryPartners)),
		clients:  make(map[string]ports.Customer, len(doc.Customers)),
	}
	for _, e := range doc.Menu {
		if e.ID == "" {
			return nil, fmt.Errorf("invalid reference data: menu entry %q has no id", e.Name)
		}
		if _, dup := d.entries[e.ID]; dup {
			return nil, fmt.Errorf("invalid reference data: duplicate menu entry %q", e.ID)
		}
		d.entries[e.ID] = e
	}
	for _, t := range doc.Tables {
		d.tables[t.ID] = ports.Table{ID: t.ID, Name: t.Name, Capacity: t.Capacity}
	}
	for _, w := range doc.Waiters {
		d.waiters[w.ID] = ports.Person{ID: w.ID, Name: w.Name}
	}
	for _, p := range doc.DeliveryPartners {
		d.partners[p.ID] = ports.Person{ID: p.ID, Name: p.Name}
	}
	for _, c := range doc.Customers {
		d.clients[c.ID] = ports.Customer{ID: c.ID, Name: c.Name, Due: c.Due}
	}
	return d, nil
}

func (d *Directory) Outlet() string {
	return d.outlet
}

func (d *Directory) MenuEntry(id string) (menu.Entry, bool) {
	e, ok := d.entries[id]
	return e, ok
}

// Menu returns the catalog in file order.
func (d *Directory) Menu() []menu.Entry {
	return slices.Clone(d.menu)
}

func (d *Directory) TaxSchedule() billing.TaxSchedule {
	return slices.Clone(d.taxes)
}

func (d *Directory) Table(id string) (ports.Table, bool) {
	t, ok := d.tables[id]
	return t, ok
}

func (d *Directory) Waiter(id string) (ports.Person, bool) {
	w, ok := d.waiters[id]
	return w, ok
}

func (d *Directory) Customer(id string) (ports.Customer, bool) {
	c, ok := d.clients[id]
	return c, ok
}

func (d *Directory) DeliveryPartner(id string) (ports.Person, bool) {
	p, ok := d.partners[id]
	return p, ok
}

func (d *Directory) PaymentMethodEnabled(method string) bool {
	return slices.Contains(d.methods, method)
}

func (d *Directory) SoundEnabled() bool {
	return d.sound
}
