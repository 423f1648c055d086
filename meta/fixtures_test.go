package meta

import "errors"

type person struct {
	name     string
	age      int
	active   bool
	Nickname string
	Hidden   string `prop:"-"`
	Renamed  string `prop:"alias"`
}

func (p *person) Name() string        { return p.name }
func (p *person) SetName(name string) { p.name = name }
func (p *person) GetAge() int         { return p.age }
func (p *person) IsActive() bool      { return p.active }

func (p *person) SetAge(age int) error {
	if age < 0 {
		return errors.New("age must not be negative")
	}

	p.age = age

	return nil
}

// Describe has an argument and is not an accessor.
func (p *person) Describe(prefix string) string { return prefix + p.name }

type conflicting struct{ value int }

func (c *conflicting) GetValue() int     { return c.value }
func (c *conflicting) SetValue(_ string) {}

type duplicated struct{ code string }

func (d *duplicated) GetCode() string     { return d.code }
func (d *duplicated) Code() string        { return d.code }
func (d *duplicated) SetCode(code string) { d.code = code }

type badSetter struct{ level int }

func (b *badSetter) GetLevel() int     { return b.level }
func (b *badSetter) SetLevel(_, _ int) {}

type clash struct {
	A string `prop:"x"`
	B string `prop:"x"`
}

type Base struct {
	ID      string
	Created string
}

type Extra struct {
	Note string
}

type document struct {
	Base
	*Extra
	Title string
	Tags  []string
	Attrs map[string]int
	notes string
}

type shadow struct {
	Base
	ID int
}

type Box[T any] struct {
	Items []T
	Index map[string]T
}

type celsius float64

func (c *celsius) Fahrenheit() float64     { return float64(*c)*9/5 + 32 }
func (c *celsius) SetFahrenheit(f float64) { *c = celsius((f - 32) * 5 / 9) }
