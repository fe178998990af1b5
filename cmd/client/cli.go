package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jdrojas/repuestos-lan/pkg/client"
)

const defaultServer = "http://127.0.0.1:5000"

// runCLI despacha el subcomando y devuelve el código de salida:
// 0 éxito, 1 error del servidor o de red, 2 error de uso.
func runCLI(args []string) int {
	switch args[0] {
	case "help", "-h", "--help":
		printHelp()
		return 0
	case "ping":
		return cliPing(args[1:])
	case "items":
		return cliItems(args[1:])
	case "get":
		return cliGet(args[1:])
	case "put":
		return cliPut(args[1:])
	case "rm":
		return cliRm(args[1:])
	case "sell":
		return cliSell(args[1:])
	case "return":
		return cliReturn(args[1:])
	case "movements":
		return cliMovements(args[1:])
	case "watch":
		return cliWatch(args[1:])
	case "backup":
		return cliBackup(args[1:])
	case "backups":
		return cliBackups(args[1:])
	case "download":
		return cliDownload(args[1:])
	case "restore":
		return cliRestore(args[1:])
	case "purge":
		return cliPurge(args[1:])
	case "unlock":
		return cliUnlock(args[1:])
	case "rotate-key":
		return cliRotateKey(args[1:])
	case "rotate-master":
		return cliRotateMaster(args[1:])
	case "events":
		return cliEvents(args[1:])
	case "clients":
		return cliClients(args[1:])
	case "status":
		return cliStatus(args[1:])
	case "report":
		return cliReport(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "subcomando desconocido: %s\n\n", args[0])
		printHelp()
		return 2
	}
}

// connFlags agrupa las banderas de conexión comunes a todos los subcomandos.
// Cada bandera toma su valor por defecto de una variable de entorno para que
// las estaciones puedan configurarse una sola vez.
type connFlags struct {
	server *string
	key    *string
	client *string
	token  *string
}

func addConnFlags(fs *flag.FlagSet) *connFlags {
	return &connFlags{
		server: fs.String("server", envOr("REPUESTOS_SERVER", defaultServer), "URL base del servidor"),
		key:    fs.String("key", os.Getenv("REPUESTOS_API_KEY"), "clave compartida de la LAN (X-API-KEY)"),
		client: fs.String("client", envOr("REPUESTOS_CLIENT_ID", hostnameID()), "identificador de esta estación"),
		token:  fs.String("token", os.Getenv("REPUESTOS_TOKEN"), "token de operador para comandos administrativos"),
	}
}

func (cf *connFlags) newClient() *client.Client {
	c := client.New(*cf.server,
		client.WithAPIKey(*cf.key),
		client.WithClientID(*cf.client),
	)
	if *cf.token != "" {
		c.SetToken(*cf.token)
	}
	return c
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// hostnameID identifica la estación por su nombre de máquina.
func hostnameID() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "cliente-lan"
	}
	return h
}

func fail(err error) int {
	fmt.Fprintln(os.Stderr, "error:", err)
	return 1
}

func usage(msg string) int {
	fmt.Fprintln(os.Stderr, msg)
	return 2
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fail(err)
	}
	return 0
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func cliPing(args []string) int {
	fs := flag.NewFlagSet("ping", flag.ContinueOnError)
	cf := addConnFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	info, err := cf.newClient().Ping(context.Background())
	if err != nil {
		return fail(err)
	}
	fmt.Println("servidor activo")
	fmt.Println("  hora del servidor:    ", info.ServerTime)
	fmt.Println("  última actualización: ", info.LastUpdate)
	return 0
}

func cliItems(args []string) int {
	fs := flag.NewFlagSet("items", flag.ContinueOnError)
	cf := addConnFlags(fs)
	jsonOut := fs.Bool("json", false, "salida en JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	list, err := cf.newClient().ListItems(context.Background())
	if err != nil {
		return fail(err)
	}
	if *jsonOut {
		return printJSON(list)
	}
	printItemTable(list.Items)
	fmt.Printf("\n%d artículos; última actualización: %s\n", len(list.Items), list.LastUpdate)
	return 0
}

func printItemTable(items []client.Item) {
	fmt.Printf("%-14s %-30s %6s %12s %14s\n", "CÓDIGO", "ARTÍCULO", "CANT", "USD", "BS")
	for _, it := range items {
		fmt.Printf("%-14s %-30s %6d %12s %14s\n",
			truncate(it.ID, 14), truncate(it.Name, 30), it.Quantity,
			it.PriceUSD.StringFixed(2), it.PriceBs.StringFixed(2))
	}
}

func cliGet(args []string) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	cf := addConnFlags(fs)
	jsonOut := fs.Bool("json", false, "salida en JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		return usage("falta el código del artículo")
	}
	it, err := cf.newClient().GetItem(context.Background(), fs.Arg(0))
	if err != nil {
		if client.IsNotFound(err) {
			fmt.Fprintln(os.Stderr, "no encontrado:", fs.Arg(0))
			return 1
		}
		return fail(err)
	}
	if *jsonOut {
		return printJSON(it)
	}
	fmt.Println("código:      ", it.ID)
	fmt.Println("nombre:      ", it.Name)
	fmt.Println("descripción: ", it.Description)
	fmt.Println("cantidad:    ", it.Quantity)
	fmt.Println("precio USD:  ", it.PriceUSD.StringFixed(2))
	fmt.Println("precio Bs:   ", it.PriceBs.StringFixed(2))
	fmt.Println("actualizado: ", it.UpdatedAt)
	return 0
}

func cliPut(args []string) int {
	fs := flag.NewFlagSet("put", flag.ContinueOnError)
	cf := addConnFlags(fs)
	id := fs.String("id", "", "código del artículo (requerido)")
	name := fs.String("name", "", "nombre (requerido)")
	desc := fs.String("desc", "", "descripción")
	qty := fs.Int64("qty", 0, "cantidad en stock")
	usd := fs.String("usd", "0", "precio en USD")
	bs := fs.String("bs", "0", "precio en Bs")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *id == "" || *name == "" {
		return usage("-id y -name son requeridos")
	}
	priceUSD, err := decimal.NewFromString(*usd)
	if err != nil {
		return usage("precio -usd inválido: " + *usd)
	}
	priceBs, err := decimal.NewFromString(*bs)
	if err != nil {
		return usage("precio -bs inválido: " + *bs)
	}
	it, err := cf.newClient().UpsertItem(context.Background(), client.ItemInput{
		ID:          *id,
		Name:        *name,
		Description: *desc,
		Quantity:    *qty,
		PriceUSD:    priceUSD,
		PriceBs:     priceBs,
	})
	if err != nil {
		return fail(err)
	}
	fmt.Printf("guardado: %s (%s), stock %d\n", it.ID, it.Name, it.Quantity)
	return 0
}

func cliRm(args []string) int {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	cf := addConnFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		return usage("falta el código del artículo")
	}
	if err := cf.newClient().DeleteItem(context.Background(), fs.Arg(0)); err != nil {
		return fail(err)
	}
	fmt.Println("eliminado:", fs.Arg(0))
	return 0
}

func parseQuantity(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func cliSell(args []string) int {
	fs := flag.NewFlagSet("sell", flag.ContinueOnError)
	cf := addConnFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 2 {
		return usage("uso: sell <código> <cantidad>")
	}
	qty, ok := parseQuantity(fs.Arg(1))
	if !ok {
		return usage("la cantidad debe ser un entero positivo")
	}
	res, err := cf.newClient().Sell(context.Background(), fs.Arg(0), qty)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("venta registrada: %s queda con %d unidades\n", fs.Arg(0), res.NewQuantity)
	return 0
}

func cliReturn(args []string) int {
	fs := flag.NewFlagSet("return", flag.ContinueOnError)
	cf := addConnFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 2 {
		return usage("uso: return <código> <cantidad>")
	}
	qty, ok := parseQuantity(fs.Arg(1))
	if !ok {
		return usage("la cantidad debe ser un entero positivo")
	}
	res, err := cf.newClient().Return(context.Background(), fs.Arg(0), qty)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("devolución registrada: %s queda con %d unidades\n", fs.Arg(0), res.NewQuantity)
	return 0
}

func cliMovements(args []string) int {
	fs := flag.NewFlagSet("movements", flag.ContinueOnError)
	cf := addConnFlags(fs)
	itemID := fs.String("item", "", "filtrar por código de artículo")
	typ := fs.String("type", "", "filtrar por tipo: SALE o RETURN")
	limit := fs.Int("limit", 50, "máximo de movimientos")
	offset := fs.Int("offset", 0, "desplazamiento de página")
	jsonOut := fs.Bool("json", false, "salida en JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	list, err := cf.newClient().Movements(context.Background(), client.MovementQuery{
		ItemID: *itemID,
		Type:   *typ,
		Limit:  *limit,
		Offset: *offset,
	})
	if err != nil {
		return fail(err)
	}
	if *jsonOut {
		return printJSON(list)
	}
	fmt.Printf("%-20s %-8s %-14s %6s %-16s\n", "FECHA", "TIPO", "ARTÍCULO", "CANT", "ORIGEN")
	for _, m := range list.Movements {
		fmt.Printf("%-20s %-8s %-14s %6d %-16s\n",
			m.CreatedAt, m.Type, truncate(m.ItemID, 14), m.Quantity, truncate(m.CreatedBy, 16))
	}
	fmt.Printf("\n%d movimientos (limit %d, offset %d)\n", len(list.Movements), list.Page.Limit, list.Page.Offset)
	return 0
}

func cliWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	cf := addConnFlags(fs)
	interval := fs.Duration("interval", client.DefaultWatchInterval, "intervalo de sondeo")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("observando %s cada %s (Ctrl+C para salir)\n", *cf.server, *interval)
	err := cf.newClient().Watch(ctx, *interval, func(items []client.Item, lastUpdate string) {
		fmt.Printf("\n[%s] inventario actualizado (marcador %s)\n", time.Now().Format("15:04:05"), lastUpdate)
		printItemTable(items)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fail(err)
	}
	return 0
}

func cliBackup(args []string) int {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	cf := addConnFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	res, err := cf.newClient().CreateBackup(context.Background())
	if err != nil {
		return fail(err)
	}
	fmt.Printf("respaldo creado: %s (%d bytes)\n", res.Name, res.Size)
	return 0
}

func cliBackups(args []string) int {
	fs := flag.NewFlagSet("backups", flag.ContinueOnError)
	cf := addConnFlags(fs)
	jsonOut := fs.Bool("json", false, "salida en JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	backups, err := cf.newClient().ListBackups(context.Background())
	if err != nil {
		return fail(err)
	}
	if *jsonOut {
		return printJSON(backups)
	}
	fmt.Printf("%-32s %12s %-20s\n", "NOMBRE", "BYTES", "CREADO")
	for _, b := range backups {
		fmt.Printf("%-32s %12d %-20s\n", b.Name, b.Size, b.CreatedAt)
	}
	fmt.Printf("\n%d respaldos en el servidor\n", len(backups))
	return 0
}

func cliDownload(args []string) int {
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	cf := addConnFlags(fs)
	out := fs.String("o", "", "archivo destino (por defecto el nombre del respaldo)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		return usage("falta el nombre del respaldo (ver 'backups')")
	}
	name := fs.Arg(0)
	dest := *out
	if dest == "" {
		dest = name
	}
	f, err := os.Create(dest)
	if err != nil {
		return fail(err)
	}
	n, err := cf.newClient().DownloadBackup(context.Background(), name, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dest)
		return fail(err)
	}
	fmt.Printf("descargado %s -> %s (%d bytes)\n", name, dest, n)
	return 0
}

func cliRestore(args []string) int {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	cf := addConnFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		return usage("falta el nombre del respaldo (ver 'backups')")
	}
	if *cf.token == "" {
		return usage("restore requiere -token de operador (ver 'unlock')")
	}
	res, err := cf.newClient().Restore(context.Background(), fs.Arg(0))
	if err != nil {
		return fail(err)
	}
	fmt.Printf("restaurado: %s\n", res.Restored)
	fmt.Printf("copia previa del estado: %s\n", res.PreRestore)
	return 0
}

func cliPurge(args []string) int {
	fs := flag.NewFlagSet("purge", flag.ContinueOnError)
	cf := addConnFlags(fs)
	yes := fs.Bool("yes", false, "confirma el vaciado sin preguntar")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *cf.token == "" {
		return usage("purge requiere -token de operador (ver 'unlock')")
	}
	if !*yes {
		return usage("esto elimina TODO el inventario; repita con -yes para confirmar")
	}
	removed, err := cf.newClient().PurgeItems(context.Background())
	if err != nil {
		return fail(err)
	}
	fmt.Printf("inventario vaciado: %d artículos eliminados\n", removed)
	return 0
}

func cliUnlock(args []string) int {
	fs := flag.NewFlagSet("unlock", flag.ContinueOnError)
	cf := addConnFlags(fs)
	operator := fs.String("operator", "", "nombre del operador (requerido)")
	master := fs.String("master", os.Getenv("REPUESTOS_MASTER_KEY"), "clave maestra")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *operator == "" {
		return usage("-operator es requerido")
	}
	if *master == "" {
		return usage("-master es requerido (o defina REPUESTOS_MASTER_KEY)")
	}
	res, err := cf.newClient().Unlock(context.Background(), *master, *operator)
	if err != nil {
		return fail(err)
	}
	fmt.Println("sesión de operador abierta")
	fmt.Println("  operador: ", res.Operator)
	fmt.Println("  expira:   ", res.ExpiresAt)
	fmt.Println("  token:    ", res.Token)
	fmt.Println()
	fmt.Println("para los siguientes comandos: export REPUESTOS_TOKEN=" + res.Token)
	return 0
}

func cliRotateKey(args []string) int {
	fs := flag.NewFlagSet("rotate-key", flag.ContinueOnError)
	cf := addConnFlags(fs)
	newKey := fs.String("new", "", "clave compartida nueva (mínimo 8 caracteres)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *newKey == "" {
		return usage("-new es requerido")
	}
	if *cf.token == "" {
		return usage("rotate-key requiere -token de operador (ver 'unlock')")
	}
	if err := cf.newClient().RotateAPIKey(context.Background(), *newKey); err != nil {
		return fail(err)
	}
	fmt.Println("clave compartida rotada; distribúyala a las demás estaciones")
	return 0
}

func cliRotateMaster(args []string) int {
	fs := flag.NewFlagSet("rotate-master", flag.ContinueOnError)
	cf := addConnFlags(fs)
	current := fs.String("current", "", "clave maestra vigente")
	newKey := fs.String("new", "", "clave maestra nueva (mínimo 8 caracteres)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *current == "" || *newKey == "" {
		return usage("-current y -new son requeridos")
	}
	if *cf.token == "" {
		return usage("rotate-master requiere -token de operador (ver 'unlock')")
	}
	if err := cf.newClient().RotateMasterKey(context.Background(), *current, *newKey); err != nil {
		return fail(err)
	}
	fmt.Println("clave maestra rotada")
	return 0
}

func cliEvents(args []string) int {
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	cf := addConnFlags(fs)
	limit := fs.Int("limit", 100, "máximo de eventos")
	jsonOut := fs.Bool("json", false, "salida en JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *cf.token == "" {
		return usage("events requiere -token de operador (ver 'unlock')")
	}
	events, err := cf.newClient().Events(context.Background(), *limit)
	if err != nil {
		return fail(err)
	}
	if *jsonOut {
		return printJSON(events)
	}
	fmt.Printf("%-20s %-16s %-18s %s\n", "FECHA", "ACTOR", "ACCIÓN", "DETALLE")
	for _, e := range events {
		fmt.Printf("%-20s %-16s %-18s %s\n",
			e.At, truncate(e.Actor, 16), truncate(e.Action, 18), e.Detail)
	}
	return 0
}

func cliClients(args []string) int {
	fs := flag.NewFlagSet("clients", flag.ContinueOnError)
	cf := addConnFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *cf.token == "" {
		return usage("clients requiere -token de operador (ver 'unlock')")
	}
	clients, err := cf.newClient().Clients(context.Background())
	if err != nil {
		return fail(err)
	}
	fmt.Printf("%-24s %-20s %10s\n", "ESTACIÓN", "ÚLTIMA VEZ", "HACE (s)")
	for _, cl := range clients {
		fmt.Printf("%-24s %-20s %10d\n", truncate(cl.ClientID, 24), cl.LastSeen, cl.SecondsAgo)
	}
	return 0
}

func cliStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	cf := addConnFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *cf.token == "" {
		return usage("status requiere -token de operador (ver 'unlock')")
	}
	st, err := cf.newClient().Status(context.Background())
	if err != nil {
		return fail(err)
	}
	fmt.Println("estado:               ", st.Status)
	fmt.Println("artículos:            ", st.Items)
	fmt.Println("última actualización: ", st.LastUpdate)
	fmt.Println("estaciones activas:   ", st.ActiveClients)
	fmt.Println("respaldos:            ", st.Backups)
	fmt.Println("uptime (s):           ", st.UptimeSeconds)
	return 0
}

func cliReport(args []string) int {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	cf := addConnFlags(fs)
	out := fs.String("o", "inventario.pdf", "archivo PDF destino")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	pdf, err := cf.newClient().InventoryReportPDF(context.Background())
	if err != nil {
		return fail(err)
	}
	if err := os.WriteFile(*out, pdf, 0o644); err != nil {
		return fail(err)
	}
	fmt.Printf("reporte escrito en %s (%d bytes)\n", *out, len(pdf))
	return 0
}

func printHelp() {
	fmt.Println("cliente de inventario para la LAN del taller")
	fmt.Println("\nUso:")
	fmt.Println("  client <subcomando> [banderas]")
	fmt.Println("\nConsulta:")
	fmt.Println("  ping                         verifica que el servidor responde")
	fmt.Println("  items [-json]                lista el inventario completo")
	fmt.Println("  get <código> [-json]         muestra un artículo")
	fmt.Println("  movements [-item] [-type SALE|RETURN] [-limit] [-offset]")
	fmt.Println("  watch [-interval 10s]        observa cambios del inventario")
	fmt.Println("  report [-o inventario.pdf]   descarga el reporte PDF")
	fmt.Println("\nMutación:")
	fmt.Println("  put -id X -name N [-desc D] [-qty N] [-usd V] [-bs V]")
	fmt.Println("  rm <código>")
	fmt.Println("  sell <código> <cantidad>")
	fmt.Println("  return <código> <cantidad>")
	fmt.Println("\nRespaldos:")
	fmt.Println("  backup                       crea un respaldo en el servidor")
	fmt.Println("  backups [-json]              lista los respaldos")
	fmt.Println("  download <nombre> [-o F]     descarga un respaldo")
	fmt.Println("  restore <nombre>             restaura un respaldo (requiere -token)")
	fmt.Println("\nAdministración (requieren -token, ver unlock):")
	fmt.Println("  unlock -operator N [-master K]   abre sesión con la clave maestra")
	fmt.Println("  rotate-key -new K                rota la clave compartida")
	fmt.Println("  rotate-master -current C -new K  rota la clave maestra")
	fmt.Println("  purge -yes                       vacía todo el inventario")
	fmt.Println("  events [-limit] [-json]          bitácora de acciones")
	fmt.Println("  clients                          estaciones vistas recientemente")
	fmt.Println("  status                           estado del servidor")
	fmt.Println("\nConexión (todas las órdenes):")
	fmt.Println("  -server URL   (REPUESTOS_SERVER, por defecto " + defaultServer + ")")
	fmt.Println("  -key K        (REPUESTOS_API_KEY)")
	fmt.Println("  -client ID    (REPUESTOS_CLIENT_ID, por defecto el hostname)")
	fmt.Println("  -token T      (REPUESTOS_TOKEN)")
}
