package auth

import "context"

// Claims es el usuario autenticado del request. Email es el destinatario de
// las confirmaciones que dispara ese usuario (formulario, carrito, cargue).
type Claims struct {
	UserID string
	Email  string
}

// AuthVerifier valida un access token contra el proveedor de identidad.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
