package ir

import (
	"fmt"
	"strings"
)

// Format returns a readable text rendering of the procedure, one line per
// statement or terminator. Intended for debug traces and test failures.
func Format(p *Procedure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "proc (args: %d, locals: %d)\n", p.ArgCount, len(p.Locals))
	for id, blk := range p.Blocks {
		fmt.Fprintf(&b, "bb%d:\n", id)
		for _, s := range blk.Stmts {
			fmt.Fprintf(&b, "  %s\n", formatStmt(s))
		}
		fmt.Fprintf(&b, "  %s\n", formatTerm(blk.Term))
	}
	return b.String()
}

func formatStmt(s Statement) string {
	switch s := s.(type) {
	case *Assign:
		return fmt.Sprintf("%s = %s", formatPlace(s.Place), formatRvalue(s.Rvalue))
	case *StorageStart:
		return fmt.Sprintf("storage_start(_%d)", s.Local)
	case *StorageEnd:
		return fmt.Sprintf("storage_end(_%d)", s.Local)
	default:
		return "?"
	}
}

func formatTerm(t Terminator) string {
	switch t := t.(type) {
	case *Goto:
		return fmt.Sprintf("goto bb%d", t.Target)
	case *Branch:
		targets := make([]string, len(t.Targets))
		for i, b := range t.Targets {
			targets[i] = fmt.Sprintf("bb%d", b)
		}
		return fmt.Sprintf("branch %s [%s]", formatOperand(t.Cond), strings.Join(targets, ", "))
	case *Call:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = formatOperand(a)
		}
		call := fmt.Sprintf("%s(%s) -> bb%d", t.Callee, strings.Join(args, ", "), t.Next)
		if t.Dest != nil {
			return fmt.Sprintf("%s = %s", formatPlace(*t.Dest), call)
		}
		return call
	case *Drop:
		return fmt.Sprintf("drop(%s) -> bb%d", formatPlace(t.Place), t.Next)
	case *Return:
		if t.Value != nil {
			return "return " + formatOperand(t.Value)
		}
		return "return"
	case nil:
		return "<unterminated>"
	default:
		return "?"
	}
}

func formatPlace(p Place) string {
	s := fmt.Sprintf("_%d", p.Local)
	for _, elem := range p.Projection {
		switch elem := elem.(type) {
		case Deref:
			s = "(*" + s + ")"
		case Field:
			s = fmt.Sprintf("%s.%d", s, elem.Index)
		case Index:
			s += "[]"
		}
	}
	return s
}

func formatOperand(op Operand) string {
	switch op := op.(type) {
	case *Copy:
		return "copy " + formatPlace(op.Place)
	case *Move:
		return "move " + formatPlace(op.Place)
	case *Const:
		return "const " + op.Type.String()
	default:
		return "?"
	}
}

func formatRvalue(rv Rvalue) string {
	switch rv := rv.(type) {
	case *Use:
		return formatOperand(rv.X)
	case *Ref:
		return "&" + formatPlace(rv.Place)
	case *Aggregate:
		ops := make([]string, len(rv.Ops))
		for i, op := range rv.Ops {
			ops[i] = formatOperand(op)
		}
		return "aggregate(" + strings.Join(ops, ", ") + ")"
	case *BinaryOp:
		return fmt.Sprintf("binop(%s, %s)", formatOperand(rv.LHS), formatOperand(rv.RHS))
	case *UnaryOp:
		return "unop(" + formatOperand(rv.X) + ")"
	case *Cast:
		return fmt.Sprintf("cast(%s as %s)", formatOperand(rv.X), rv.To)
	case *Repeat:
		return fmt.Sprintf("repeat(%s, %d)", formatOperand(rv.X), rv.Count)
	default:
		return "?"
	}
}
