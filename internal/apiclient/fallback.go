package apiclient

import "context"

// FirstSuccess пробует варианты по порядку и возвращает первый успешный результат.
// Если все варианты упали, возвращается последняя ошибка. Ошибка авторизации
// прерывает перебор: остальные варианты упадут так же.
func FirstSuccess[T any](ctx context.Context, candidates []string, try func(context.Context, string) (T, error)) (T, error) {
	var zero T
	if len(candidates) == 0 {
		return zero, ErrNoCandidates
	}

	var lastErr error
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		result, err := try(ctx, candidate)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if IsAuthError(err) {
			break
		}
	}
	return zero, lastErr
}
