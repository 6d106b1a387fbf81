package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/teafis/ModelTea-stdlib/ffi"
	"github.com/teafis/ModelTea-stdlib/kind"
	"github.com/teafis/ModelTea-stdlib/wasmhost"
)

func newWITCommand(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "wit",
		Short: "Print the WIT description of the boundary kinds and host functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeWIT(cmd.OutOrStdout())
		},
	}
}

func writeWIT(w io.Writer) error {
	var b strings.Builder

	b.WriteString("package mtea:blocks;\n\n")

	b.WriteString("interface kinds {\n")
	for _, k := range kind.All() {
		fmt.Fprintf(&b, "  /// id %d, width %d, %s\n", uint32(k), k.Width(), k.CName())
		fmt.Fprintf(&b, "  type %s-value = %s;\n", k, witTypeStr(k.WIT()))
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "interface %s {\n", wasmhost.ModuleName)
	for _, f := range wasmhost.Functions(ffi.New(nil)) {
		params := make([]string, len(f.ParamTypes))
		for i, p := range f.ParamTypes {
			params[i] = fmt.Sprintf("p%d: %s", i, witTypeStr(coreType(p)))
		}
		result := ""
		if len(f.ResultTypes) > 0 {
			result = " -> " + witTypeStr(coreType(f.ResultTypes[0]))
		}
		fmt.Fprintf(&b, "  %s: func(%s)%s;\n", strings.ReplaceAll(f.Name, "_", "-"), strings.Join(params, ", "), result)
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// coreType maps a core wasm value type to the WIT type with the same layout.
func coreType(t api.ValueType) wit.Type {
	switch t {
	case api.ValueTypeI32:
		return wit.S32{}
	case api.ValueTypeI64:
		return wit.S64{}
	case api.ValueTypeF32:
		return wit.F32{}
	case api.ValueTypeF64:
		return wit.F64{}
	}
	return nil
}

func witTypeStr(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}
