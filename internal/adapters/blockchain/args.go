package blockchain

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/creg/internal/domain"
)

// coerceArgs converts command-line strings into the Go values abi.Pack expects.
// Values that are not strings are passed through unchanged.
func coerceArgs(inputs abi.Arguments, args []any) ([]any, error) {
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(inputs), len(args))
	}

	out := make([]any, len(args))
	for i, arg := range args {
		s, ok := arg.(string)
		if !ok {
			out[i] = arg
			continue
		}
		v, err := coerceArg(inputs[i].Type, s)
		if err != nil {
			label := inputs[i].Name
			if label == "" {
				label = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", label, inputs[i].Type.String(), err)
		}
		out[i] = v
	}
	return out, nil
}

func coerceArg(t abi.Type, s string) (any, error) {
	s = strings.TrimSpace(s)

	switch t.T {
	case abi.StringTy:
		return s, nil

	case abi.BoolTy:
		return strconv.ParseBool(s)

	case abi.AddressTy:
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAddress, s)
		}
		return common.HexToAddress(s), nil

	case abi.IntTy, abi.UintTy:
		return coerceInteger(t, s)

	case abi.BytesTy:
		return hexutil.Decode(s)

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, err
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("value has %d bytes, type holds %d", len(b), t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		return coerceList(t, s)

	default:
		return nil, fmt.Errorf("unsupported argument type %s", t.String())
	}
}

func coerceInteger(t abi.Type, s string) (any, error) {
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	if t.T == abi.UintTy && n.Sign() < 0 {
		return nil, fmt.Errorf("negative value %s for unsigned type", s)
	}
	if !fitsInteger(t, n) {
		return nil, fmt.Errorf("value %s overflows %s", s, t.String())
	}

	goType := t.GetType()
	if goType == reflect.TypeOf(&big.Int{}) {
		return n, nil
	}

	v := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		v.SetUint(n.Uint64())
	} else {
		if !n.IsInt64() || v.OverflowInt(n.Int64()) {
			return nil, fmt.Errorf("value %s overflows %s", s, t.String())
		}
		v.SetInt(n.Int64())
	}
	return v.Interface(), nil
}

// fitsInteger reports whether n is in range for t. Signed N-bit values
// span -2^(N-1) to 2^(N-1)-1.
func fitsInteger(t abi.Type, n *big.Int) bool {
	if t.T == abi.UintTy {
		return n.BitLen() <= t.Size
	}
	if n.Sign() >= 0 {
		return n.BitLen() < t.Size
	}
	return new(big.Int).Add(n, big.NewInt(1)).BitLen() < t.Size
}

// coerceList parses a JSON list, e.g. ["0x01","0x02"] or [1,2,3]
func coerceList(t abi.Type, s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("expected a JSON list: %w", err)
	}
	if t.T == abi.ArrayTy && len(raw) != t.Size {
		return nil, fmt.Errorf("expected %d elements, got %d", t.Size, len(raw))
	}

	var list reflect.Value
	if t.T == abi.ArrayTy {
		list = reflect.New(t.GetType()).Elem()
	} else {
		list = reflect.MakeSlice(t.GetType(), len(raw), len(raw))
	}

	for i, item := range raw {
		str, ok := item.(string)
		if !ok {
			str = fmt.Sprint(item)
		}
		v, err := coerceArg(*t.Elem, str)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		list.Index(i).Set(reflect.ValueOf(v))
	}
	return list.Interface(), nil
}
