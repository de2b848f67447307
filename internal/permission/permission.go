// Package permission evaluates per-operation permission values. Booleans
// short-circuit; string permission codes go through a casbin enforcer when
// one is wired, and default to allow otherwise — an integration point, not a
// full permission engine.
package permission

import (
	"encoding/json"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

// Value is a permission setting: unset (allow), a boolean, or a string code.
type Value struct {
	set  bool
	b    bool
	code string
}

// Allow and Deny are the boolean constants.
var (
	Allow = Value{}
	Deny  = Value{set: true, b: false}
)

// Bool returns a boolean permission value.
func Bool(b bool) Value { return Value{set: true, b: b} }

// Code returns a string-coded permission value.
func Code(code string) Value { return Value{set: true, b: true, code: code} }

// UnmarshalYAML accepts either a bare boolean or a code string.
func (v *Value) UnmarshalYAML(unmarshal func(any) error) error {
	var b bool
	if err := unmarshal(&b); err == nil {
		*v = Bool(b)
		return nil
	}
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("permission: expected bool or string: %w", err)
	}
	*v = Code(s)
	return nil
}

// UnmarshalJSON accepts either a bare boolean or a code string.
func (v *Value) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = Bool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("permission: expected bool or string: %w", err)
	}
	*v = Code(s)
	return nil
}

// MarshalJSON round-trips the value.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.set {
		return json.Marshal(true)
	}
	if v.code != "" {
		return json.Marshal(v.code)
	}
	return json.Marshal(v.b)
}

// Checker resolves string permission codes for a subject.
type Checker struct {
	enf *casbin.Enforcer
}

// NewChecker builds a checker around an optional enforcer. A nil enforcer
// treats every code as granted.
func NewChecker(enf *casbin.Enforcer) *Checker {
	return &Checker{enf: enf}
}

// DefaultEnforcer builds the ACL model used by the console: subject, object
// (permission code), action. policyPath points at a casbin CSV policy file;
// empty starts with no policies loaded.
func DefaultEnforcer(policyPath string) (*casbin.Enforcer, error) {
	m := model.NewModel()
	m.AddDef("r", "r", "sub, obj, act")
	m.AddDef("p", "p", "sub, obj, act")
	m.AddDef("g", "g", "_, _")
	m.AddDef("e", "e", "some(where (p.eft == allow))")
	m.AddDef("m", "m", "g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && r.act == p.act")
	if policyPath == "" {
		return casbin.NewEnforcer(m)
	}
	return casbin.NewEnforcer(m, fileadapter.NewAdapter(policyPath))
}

// Allowed evaluates a permission value for subject and action. Unset values
// and granted codes allow; code evaluation errors deny.
func (c *Checker) Allowed(subject string, act string, v Value) bool {
	if !v.set {
		return true
	}
	if v.code == "" {
		return v.b
	}
	if c == nil || c.enf == nil {
		// no permission engine wired in: codes are accepted as-is
		return true
	}
	ok, err := c.enf.Enforce(subject, v.code, act)
	if err != nil {
		return false
	}
	return ok
}
