package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/715d/sinkreach/internal/catalog"
	"github.com/715d/sinkreach/internal/profile"
)

func TestSinksPythonMatchesNamePlusFile(t *testing.T) {
	// Python sinks match on bare name plus declaring file.
	functions := []*profile.Function{
		{Name: "system", SourceFile: "os"},
		{Name: "system", SourceFile: "custom_shell.py"}, // wrong qualifier
		{Name: "run", SourceFile: "main.py"},            // not a sink
	}

	sinks := NewFilter(catalog.Default()).Sinks(functions, catalog.Python)

	require.Len(t, sinks, 1)
	require.Equal(t, "os", sinks[0].SourceFile)
}

func TestSinksJVMSignatureSplitting(t *testing.T) {
	tests := []struct {
		name    string
		rawName string
		isSink  bool
	}{
		{
			name:    "runtime_exec_with_signature",
			rawName: "java.lang.Runtime.exec(Ljava/lang/String;)",
			isSink:  true,
		},
		{
			name:    "process_builder_start",
			rawName: "java.lang.ProcessBuilder.start()",
			isSink:  true,
		},
		{
			name:    "default_package_method",
			rawName: "helperMethod(I)",
			isSink:  false,
		},
		{
			name:    "non_sink_method",
			rawName: "com.example.App.main([Ljava/lang/String;)",
			isSink:  false,
		},
	}

	filter := NewFilter(catalog.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := &profile.Function{Name: tt.rawName, RawName: tt.rawName}
			sinks := filter.Sinks([]*profile.Function{fn}, catalog.JVM)
			if tt.isSink {
				require.Len(t, sinks, 1)
			} else {
				require.Empty(t, sinks)
			}
		})
	}
}

func TestSinksJVMDefaultPackage(t *testing.T) {
	// A dot-free JVM name lands in the default package; matching it
	// requires a catalog entry with the default-package qualifier.
	c := catalog.New(map[catalog.Language][]catalog.Entry{
		catalog.JVM: {{Qualifier: catalog.DefaultPackage, Symbol: "runScript"}},
	})
	fn := &profile.Function{Name: "runScript(Ljava/lang/String;)"}

	sinks := NewFilter(c).Sinks([]*profile.Function{fn}, catalog.JVM)

	require.Len(t, sinks, 1)
}

func TestSinksCCppDemangling(t *testing.T) {
	functions := []*profile.Function{
		{Name: "system", RawName: "system"},             // plain C symbol
		{Name: "_Z7wordexpPc", RawName: "_Z7wordexpPc"}, // mangled C++ wordexp(char*)
		{Name: "_ZN5shell3runEPKc", RawName: "_ZN5shell3runEPKc"}, // shell::run, not a sink
	}

	sinks := NewFilter(catalog.Default()).Sinks(functions, catalog.CCpp)

	require.Len(t, sinks, 2)
	require.Equal(t, "system", sinks[0].Name)
	require.Equal(t, "_Z7wordexpPc", sinks[1].Name)
}

func TestSinksUnknownLanguageMatchesNothing(t *testing.T) {
	functions := []*profile.Function{
		{Name: "system", SourceFile: "os"},
	}

	sinks := NewFilter(catalog.Default()).Sinks(functions, catalog.Unknown)

	require.Empty(t, sinks)
}

func TestSinksMatchingIsCaseSensitive(t *testing.T) {
	functions := []*profile.Function{
		{Name: "System", SourceFile: "os"},
	}

	sinks := NewFilter(catalog.Default()).Sinks(functions, catalog.Python)

	require.Empty(t, sinks)
}

func TestSinksRawNameFallsBackToName(t *testing.T) {
	// Records without an explicit raw name derive the key from the
	// display name.
	functions := []*profile.Function{
		{Name: "java.lang.Runtime.exec(Ljava/lang/String;)"},
	}

	sinks := NewFilter(catalog.Default()).Sinks(functions, catalog.JVM)

	require.Len(t, sinks, 1)
}
