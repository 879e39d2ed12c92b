package codegen

const cLattice = `/* {{.Title}} */
#include <stdint.h>
#include <stdio.h>

#define N {{.N}}ULL
#define DIM {{.Dim}}

static const uint64_t z[DIM] = { {{- range $i, $z := .Vector}}{{if $i}}, {{end}}{{$z}}ULL{{end -}} };

int main(void)
{
    for (uint64_t i = 0; i < N; i++) {
        for (int j = 0; j < DIM; j++) {
            uint64_t k = (uint64_t)(((unsigned __int128)i * z[j]) % N);
            printf(j + 1 < DIM ? "%.17g," : "%.17g\n", (double)k / (double)N);
        }
    }
    return 0;
}
`

const pythonLattice = `# {{.Title}}

N = {{.N}}
Z = [{{range $i, $z := .Vector}}{{if $i}}, {{end}}{{$z}}{{end}}]


def point(i):
    return [(i * z % N) / N for z in Z]


if __name__ == "__main__":
    for i in range(N):
        print(",".join(repr(x) for x in point(i)))
`

const matlabLattice = `% {{.Title}}
n = {{.N}};
z = [{{range $i, $z := .Vector}}{{if $i}} {{end}}{{$z}}{{end}}];
P = mod((0:n-1)' * z, n) / n;
`

// Net snippets hold each base coordinate as m column integers, row 0 in the
// most significant bit. Digit position p of coordinate j comes from base
// matrix p mod D of the group, row p div D.
const cNet = `/* {{.Title}} */
#include <math.h>
#include <stdint.h>
#include <stdio.h>

#define M {{.M}}
#define DIM {{.Dim}}
#define INTERLACING {{.Interlacing}}

static const uint64_t C[DIM * INTERLACING][M] = {
{{- range .Columns}}
    { {{- range $i, $c := .}}{{if $i}}, {{end}}{{$c}}ULL{{end -}} },
{{- end}}
};

static double coordinate(int j, uint64_t i)
{
    uint64_t digits[INTERLACING] = {0};
    for (int k = 0; k < INTERLACING; k++)
        for (int b = 0; b < M; b++)
            if ((i >> b) & 1)
                digits[k] ^= C[j * INTERLACING + k][b];

    double v = 0;
    for (int p = 0; p < INTERLACING * M && p < 53; p++) {
        int k = p % INTERLACING, r = p / INTERLACING;
        if ((digits[k] >> (M - 1 - r)) & 1)
            v += ldexp(1.0, -p - 1);
    }
    return v;
}

int main(void)
{
    for (uint64_t i = 0; i < (1ULL << M); i++)
        for (int j = 0; j < DIM; j++)
            printf(j + 1 < DIM ? "%.17g," : "%.17g\n", coordinate(j, i));
    return 0;
}
`

const pythonNet = `# {{.Title}}

M = {{.M}}
INTERLACING = {{.Interlacing}}
C = [
{{- range .Columns}}
    [{{range $i, $c := .}}{{if $i}}, {{end}}{{$c}}{{end}}],
{{- end}}
]
DIM = len(C) // INTERLACING


def coordinate(j, i):
    digits = []
    for k in range(INTERLACING):
        d = 0
        for b, c in enumerate(C[j * INTERLACING + k]):
            if (i >> b) & 1:
                d ^= c
        digits.append(d)
    v = 0.0
    for p in range(min(INTERLACING * M, 53)):
        k, r = p % INTERLACING, p // INTERLACING
        if (digits[k] >> (M - 1 - r)) & 1:
            v += 2.0 ** (-p - 1)
    return v


if __name__ == "__main__":
    for i in range(2 ** M):
        print(",".join(repr(coordinate(j, i)) for j in range(DIM)))
`
