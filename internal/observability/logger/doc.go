// Package logger envuelve zap con un singleton de proceso y helpers de
// contexto. Los middlewares inyectan un logger "scoped" por request y
// las capas inferiores lo recuperan con From(ctx).
package logger
