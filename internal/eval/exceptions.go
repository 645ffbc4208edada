package eval

import (
	"rossa/internal/errors"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// Throw raises a user exception carrying Val's rendered message and the
// current call-stack snapshot (spec.md §4.5, §7: "UserThrow").
type Throw struct {
	At  token.Token
	Val Instruction
}

func (t *Throw) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	v, ctrl, err := t.Val.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return v, ctrl, err
	}
	msg := v.Str()
	if v.Kind != value.KindString {
		msg = v.ToString(nil)
	}
	return value.Nil, value.Casual, errors.New(errors.UserThrow, t.At, "%s", msg).WithStack(tr.Snapshot())
}

// TryCatch runs Body; on error, binds the error's message into a fresh
// scope under CatchName and runs Catch instead (spec.md §4.5, §7:
// "try/catch only ever sees the message string").
type TryCatch struct {
	Body      Instruction
	CatchName int
	Catch     Instruction
	Finally   Instruction
}

func (tc *TryCatch) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	v, ctrl, err := func() (value.Value, value.Control, error) {
		child := value.NewScope(s)
		defer child.Clear()
		return tc.Body.Eval(child, tr)
	}()
	if err != nil {
		child := value.NewScope(s)
		msg := err.Error()
		if re, ok := err.(*errors.RossaError); ok {
			msg = re.Message
		}
		child.Declare(tc.CatchName, value.Str(msg))
		v, ctrl, err = tc.Catch.Eval(child, tr)
		child.Clear()
	}
	if tc.Finally != nil {
		fv, fctrl, ferr := tc.Finally.Eval(s, tr)
		if ferr != nil {
			return value.Nil, value.Casual, ferr
		}
		if fctrl != value.Casual {
			return fv, fctrl, nil
		}
	}
	return v, ctrl, err
}

// Switch evaluates Subject once, then runs the first Case whose value
// equals it (spec.md §4.4's switch/case), falling back to Default.
type Switch struct {
	At      token.Token
	Subject Instruction
	Cases   []SwitchCase
	Default Instruction
}

type SwitchCase struct {
	Match Instruction
	Body  Instruction
}

func (sw *Switch) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	subj, ctrl, err := sw.Subject.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return subj, ctrl, err
	}
	for _, c := range sw.Cases {
		m, ctrl, err := c.Match.Eval(s, tr)
		if err != nil || ctrl != value.Casual {
			return m, ctrl, err
		}
		if value.Equal(subj, m) {
			return c.Body.Eval(s, tr)
		}
	}
	if sw.Default != nil {
		return sw.Default.Eval(s, tr)
	}
	return value.Nil, value.Casual, nil
}
