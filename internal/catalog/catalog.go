package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/validation"
)

//go:embed catalog.schema.json
var schemaJSON []byte

// Catalog is the read-only set of game definitions.
// Lookups by id return domain.ErrCatalogNotFound for unknown ids.
type Catalog interface {
	Crime(id string) (domain.Crime, error)
	Crimes() []domain.Crime
	Mission(id string) (domain.Mission, error)
	Missions() []domain.Mission
	Gym(id string) (domain.Gym, error)
	Gyms() []domain.Gym
	Item(id string) (domain.Item, error)
	Items() []domain.Item
	Property(id string) (domain.Property, error)
	Properties() []domain.Property
	Location(id string) (domain.Location, error)
	Locations() []domain.Location
	Stock(symbol string) (domain.StockListing, error)
	Stocks() []domain.StockListing
	Achievements() []domain.Achievement
}

// File is the on-disk catalog document
type File struct {
	Locations    []domain.Location     `yaml:"locations" validate:"required,dive"`
	Crimes       []domain.Crime        `yaml:"crimes" validate:"dive"`
	Missions     []domain.Mission      `yaml:"missions" validate:"dive"`
	Gyms         []domain.Gym          `yaml:"gyms" validate:"dive"`
	Items        []domain.Item         `yaml:"items" validate:"dive"`
	Properties   []domain.Property     `yaml:"properties" validate:"dive"`
	Stocks       []domain.StockListing `yaml:"stocks" validate:"dive"`
	Achievements []domain.Achievement  `yaml:"achievements" validate:"dive"`
}

// Static is an immutable in-memory catalog
type Static struct {
	file       File
	crimes     map[string]domain.Crime
	missions   map[string]domain.Mission
	gyms       map[string]domain.Gym
	items      map[string]domain.Item
	properties map[string]domain.Property
	locations  map[string]domain.Location
	stocks     map[string]domain.StockListing
}

var _ Catalog = (*Static)(nil)

// Load reads, schema-checks and validates a YAML catalog file
func Load(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadFile, err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML bytes
func Parse(data []byte) (*Static, error) {
	schemas := validation.NewSchemaValidator()
	if err := schemas.AddSchema(SchemaName, schemaJSON); err != nil {
		return nil, fmt.Errorf(ErrMsgSchema, err)
	}
	if err := schemas.ValidateYAML(SchemaName, data); err != nil {
		return nil, fmt.Errorf(ErrMsgSchema, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf(ErrMsgParseYAML, err)
	}

	c, err := New(f)
	if err != nil {
		return nil, err
	}
	slog.Default().Info(LogMsgCatalogLoaded,
		"locations", len(f.Locations),
		"crimes", len(f.Crimes),
		"missions", len(f.Missions),
		"items", len(f.Items),
		"stocks", len(f.Stocks),
		"achievements", len(f.Achievements))
	return c, nil
}

// New validates f and indexes it
func New(f File) (*Static, error) {
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf(ErrMsgStructValidate, domain.ErrInvalidInput, err)
	}

	c := &Static{file: f}
	var err error
	if c.locations, err = index("location", f.Locations, func(l domain.Location) string { return l.ID }); err != nil {
		return nil, err
	}
	if c.crimes, err = index("crime", f.Crimes, func(v domain.Crime) string { return v.ID }); err != nil {
		return nil, err
	}
	if c.missions, err = index("mission", f.Missions, func(v domain.Mission) string { return v.ID }); err != nil {
		return nil, err
	}
	if c.gyms, err = index("gym", f.Gyms, func(v domain.Gym) string { return v.ID }); err != nil {
		return nil, err
	}
	if c.items, err = index("item", f.Items, func(v domain.Item) string { return v.ID }); err != nil {
		return nil, err
	}
	if c.properties, err = index("property", f.Properties, func(v domain.Property) string { return v.ID }); err != nil {
		return nil, err
	}
	if c.stocks, err = index("stock", f.Stocks, func(v domain.StockListing) string { return v.Symbol }); err != nil {
		return nil, err
	}
	if _, err = index("achievement", f.Achievements, func(v domain.Achievement) string { return v.ID }); err != nil {
		return nil, err
	}

	if err := c.crossCheck(); err != nil {
		return nil, err
	}
	return c, nil
}

// crossCheck enforces the rules struct tags cannot express
func (c *Static) crossCheck() error {
	if _, ok := c.locations[domain.DefaultLocation]; !ok {
		return fmt.Errorf(ErrMsgMissingDefault, domain.ErrInvalidInput, domain.DefaultLocation)
	}
	for _, l := range c.file.Locations {
		if err := nonNegative("location", l.ID, "travel_cost", l.TravelCost); err != nil {
			return err
		}
	}
	for _, cr := range c.file.Crimes {
		if err := nonNegative("crime", cr.ID, "money_reward_min", cr.MoneyRewardMin); err != nil {
			return err
		}
		if cr.MoneyRewardMin.GreaterThan(cr.MoneyRewardMax) {
			return fmt.Errorf(ErrMsgRewardRange, domain.ErrInvalidInput, cr.ID)
		}
	}
	for _, m := range c.file.Missions {
		if _, ok := c.locations[m.LocationID]; !ok {
			return fmt.Errorf(ErrMsgUnknownLocation, domain.ErrInvalidInput, m.ID, m.LocationID)
		}
		if err := nonNegative("mission", m.ID, "money_reward", m.MoneyReward); err != nil {
			return err
		}
		for _, itemID := range m.ItemRewards {
			if _, ok := c.items[itemID]; !ok {
				return fmt.Errorf(ErrMsgUnknownItem, domain.ErrInvalidInput, m.ID, itemID)
			}
		}
	}
	for _, g := range c.file.Gyms {
		if err := nonNegative("gym", g.ID, "cost_per_session", g.CostPerSession); err != nil {
			return err
		}
	}
	for _, it := range c.file.Items {
		if err := nonNegative("item", it.ID, "price", it.Price); err != nil {
			return err
		}
		if it.Kind == domain.ItemBooster && it.BoosterType == "" {
			return fmt.Errorf(ErrMsgBoosterType, domain.ErrInvalidInput, it.ID)
		}
	}
	for _, p := range c.file.Properties {
		if err := nonNegative("property", p.ID, "price", p.Price); err != nil {
			return err
		}
		if err := nonNegative("property", p.ID, "income_per_day", p.IncomePerDay); err != nil {
			return err
		}
	}
	for _, s := range c.file.Stocks {
		if !s.InitialPrice.IsPositive() {
			return fmt.Errorf(ErrMsgNegativeAmount, domain.ErrInvalidInput, "stock", s.Symbol, "initial_price")
		}
	}
	return nil
}

func nonNegative(kind, id, field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf(ErrMsgNegativeAmount, domain.ErrInvalidInput, kind, id, field)
	}
	return nil
}

func index[T any](kind string, values []T, key func(T) string) (map[string]T, error) {
	out := make(map[string]T, len(values))
	for _, v := range values {
		k := key(v)
		if _, dup := out[k]; dup {
			return nil, fmt.Errorf(ErrMsgDuplicateID, domain.ErrInvalidInput, kind, k)
		}
		out[k] = v
	}
	return out, nil
}

func lookup[T any](m map[string]T, kind, id string) (T, error) {
	v, ok := m[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %q", domain.ErrCatalogNotFound, kind, id)
	}
	return v, nil
}

func (c *Static) Crime(id string) (domain.Crime, error) { return lookup(c.crimes, "crime", id) }

func (c *Static) Crimes() []domain.Crime { return append([]domain.Crime(nil), c.file.Crimes...) }

func (c *Static) Mission(id string) (domain.Mission, error) {
	return lookup(c.missions, "mission", id)
}

func (c *Static) Missions() []domain.Mission {
	return append([]domain.Mission(nil), c.file.Missions...)
}

func (c *Static) Gym(id string) (domain.Gym, error) { return lookup(c.gyms, "gym", id) }

func (c *Static) Gyms() []domain.Gym { return append([]domain.Gym(nil), c.file.Gyms...) }

func (c *Static) Item(id string) (domain.Item, error) { return lookup(c.items, "item", id) }

func (c *Static) Items() []domain.Item { return append([]domain.Item(nil), c.file.Items...) }

func (c *Static) Property(id string) (domain.Property, error) {
	return lookup(c.properties, "property", id)
}

func (c *Static) Properties() []domain.Property {
	return append([]domain.Property(nil), c.file.Properties...)
}

func (c *Static) Location(id string) (domain.Location, error) {
	return lookup(c.locations, "location", id)
}

func (c *Static) Locations() []domain.Location {
	return append([]domain.Location(nil), c.file.Locations...)
}

func (c *Static) Stock(symbol string) (domain.StockListing, error) {
	return lookup(c.stocks, "stock", symbol)
}

// Stocks returns listings sorted by symbol
func (c *Static) Stocks() []domain.StockListing {
	out := append([]domain.StockListing(nil), c.file.Stocks...)
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func (c *Static) Achievements() []domain.Achievement {
	return append([]domain.Achievement(nil), c.file.Achievements...)
}
