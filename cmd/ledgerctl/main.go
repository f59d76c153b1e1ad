// ledgerctl tareas de operación sobre la base de datos: migraciones, alta de tenants,
// cambio de plan y verificación del kardex.
package main

func main() {
	Execute()
}
