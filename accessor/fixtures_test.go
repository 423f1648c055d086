package accessor_test

import (
	"errors"
	"fmt"
	"strings"

	"github.com/propwire/propwire/convert"
)

var errNegativeAge = errors.New("age must not be negative")

type Tier int

const (
	Bronze Tier = iota
	Silver
	Gold
)

func (t Tier) String() string {
	switch t {
	case Bronze:
		return "Bronze"
	case Silver:
		return "Silver"
	case Gold:
		return "Gold"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

func init() {
	convert.RegisterEnum(Bronze, Silver, Gold)
}

type Address struct {
	City   string
	Street string
}

type Profile struct {
	Bio   string
	Links []string
}

type Person struct {
	name    string
	age     int
	address *Address
	profile Profile
	secret  string

	Tags    []string
	Lucky   []int
	Config  map[string]string
	Scores  map[string]int
	Levels  map[int]string
	Friends []*Person
	Home    Address
	Places  map[string]Address
	Pair    [2]int
	Extra   any
	Tier    Tier
	Nick    string `prop:"nickname"`
}

func (p *Person) Name() string        { return p.name }
func (p *Person) SetName(name string) { p.name = name }

func (p *Person) GetAge() int { return p.age }

func (p *Person) SetAge(age int) error {
	if age < 0 {
		return errNegativeAge
	}

	p.age = age

	return nil
}

func (p *Person) Address() *Address           { return p.address }
func (p *Person) SetAddress(address *Address) { p.address = address }

func (p *Person) Profile() Profile           { return p.profile }
func (p *Person) SetProfile(profile Profile) { p.profile = profile }

func (p *Person) GetCode() string { return "P-" + strings.ToUpper(p.name) }

func (p *Person) SetSecret(secret string) { p.secret = secret }

// conflicting cannot be introspected: getter and setter disagree on type.
type conflicting struct {
	v int
}

func (c *conflicting) GetV() int     { return c.v }
func (c *conflicting) SetV(v string) { c.v = len(v) }

// appendEditor appends comma separated items to the current list.
type appendEditor struct {
	items []string
}

func (e *appendEditor) SetAsText(text string) error {
	e.items = append(e.items, strings.Split(text, ",")...)
	return nil
}

func (e *appendEditor) SetValue(value any) {
	items, _ := value.([]string)
	e.items = append([]string(nil), items...)
}

func (e *appendEditor) Value() any { return e.items }
