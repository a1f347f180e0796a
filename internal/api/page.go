package api

var indexPage = []byte(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>ID Card Generator with QR Code</title>
<style>
body { font-family: sans-serif; max-width: 36rem; margin: 3rem auto; padding: 0 1rem; }
label { display: block; margin-top: 1rem; }
button { margin-top: 1.5rem; }
</style>
</head>
<body>
<h1>ID Card Generator with QR Code</h1>
<p>Upload a CSV with columns: <code>Name</code>, <code>ID</code>, and <code>username</code>.</p>
<form method="post" action="/api/cards" enctype="multipart/form-data">
  <label>Password <input type="password" name="password" required></label>
  <label>CSV file <input type="file" name="file" accept=".csv,text/csv" required></label>
  <button type="submit">Generate ID cards (ZIP)</button>
</form>
</body>
</html>
`)
